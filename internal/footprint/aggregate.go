package footprint

// TrendDateLayout is the date label format of trend points.
const TrendDateLayout = "2006-01-02"

// AggregatePersonal reduces one user's records, given newest-first, into
// their stats. An empty slice yields zero values and no latest record.
func AggregatePersonal(records []*Record) *PersonalStats {
	stats := &PersonalStats{
		Count:        len(records),
		Average:      averageTotal(records),
		Trend:        TrendSeries(records),
		Distribution: CategoryDistribution(records),
	}
	if len(records) > 0 {
		stats.Latest = records[0].Clone()
	}
	return stats
}

// AggregateCommunity reduces every record in the system, regardless of
// owner, into the community stats.
func AggregateCommunity(records []*Record) *CommunityStats {
	return &CommunityStats{
		AverageFootprint:  averageTotal(records),
		TotalCalculations: len(records),
	}
}

// TrendSeries maps newest-first records to points in chronological order.
func TrendSeries(records []*Record) []TrendPoint {
	points := make([]TrendPoint, len(records))
	for i, r := range records {
		points[len(records)-1-i] = TrendPoint{
			Date:       r.CreatedAt.UTC().Format(TrendDateLayout),
			RecordedAt: r.CreatedAt,
			Total:      r.TotalFootprint,
			Categories: r.Categories.clone(),
		}
	}
	return points
}

// CategoryDistribution sums each category across records. Shares are
// fractions of the overall sum, or zero when that sum is zero.
func CategoryDistribution(records []*Record) []CategoryShare {
	sums := make(map[Category]float64, len(categoryOrder))
	var all float64
	for _, r := range records {
		for _, c := range categoryOrder {
			sums[c] += r.Categories[c]
			all += r.Categories[c]
		}
	}

	out := make([]CategoryShare, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		share := CategoryShare{Category: c, Total: sums[c]}
		if all > 0 {
			share.Share = sums[c] / all
		}
		out = append(out, share)
	}
	return out
}

// Compare contrasts personal and community averages.
func Compare(personal *PersonalStats, community *CommunityStats) Comparison {
	return Comparison{
		UserAverage:      personal.Average,
		CommunityAverage: community.AverageFootprint,
		Difference:       personal.Average - community.AverageFootprint,
	}
}

func averageTotal(records []*Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.TotalFootprint
	}
	return sum / float64(len(records))
}
