package matching

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

const (
	minutesPerKm         = 3
	minETAMinutes        = 5
	minResponseMinutes   = 2
	jobsPerResponseMin   = 15
	defaultRatingValue   = 4.5
	topRatedThreshold    = 4.6
	popularJobsThreshold = 75
	expertYearsThreshold = 5
	cityWideRadiusKm     = 15
	unknownPlaceholder   = "—"
)

// Badge labels in display order.
const (
	BadgeTopRated = "Top Rated"
	BadgePopular  = "Popular"
	BadgeExpert   = "Expert"
	BadgeCityWide = "City Wide"
)

// radiusFilter is the soft radius annotation. Disabled when the radius is not numeric.
type radiusFilter struct {
	km      float64
	enabled bool
}

func newRadiusFilter(km float64) radiusFilter {
	return radiusFilter{km: km, enabled: finite(km)}
}

func (f radiusFilter) contains(distance *float64) bool {
	if !f.enabled || distance == nil {
		return true
	}
	return *distance <= f.km
}

func annotate(rec TechnicianRecord, requester *Location, radius radiusFilter, fallback Location) RankedTechnician {
	location := fallback
	if rec.LastLocation != nil && finite(rec.LastLocation.Lat) {
		location = *rec.LastLocation
	}

	distance := Distance(requester, rec.LastLocation)
	eta := etaFor(distance)

	ratingValue := rec.AverageRating
	if ratingValue == 0 {
		ratingValue = defaultRatingValue
	}

	responseMinutes := responseTimeFor(rec)

	out := RankedTechnician{
		ID:                  rec.ID,
		UserID:              rec.Account.ID,
		Name:                rec.Account.Name,
		Email:               rec.Account.Email,
		Phone:               rec.Account.Phone,
		Avatar:              rec.Account.Avatar,
		Rating:              strconv.FormatFloat(ratingValue, 'f', 1, 64),
		RatingValue:         ratingValue,
		ReviewCount:         rec.TotalJobs,
		YearsOfExperience:   rec.YearsOfExperience,
		Experience:          fmt.Sprintf("%d years", rec.YearsOfExperience),
		Specializations:     labelsFor(rec.Specialties),
		Distance:            unknownPlaceholder,
		ETA:                 unknownPlaceholder,
		Availability:        rec.CurrentStatus,
		IsAvailable:         rec.CurrentStatus == StatusAvailable,
		HourlyRate:          rec.HourlyRate,
		ResponseTimeMinutes: responseMinutes,
		ResponseTime:        formatNumber(responseMinutes) + " mins",
		Badges:              badgesFor(rec),
		RecentReview:        rec.RecentReview,
		Location:            location,
		ServiceRadius:       rec.ServiceRadius,
		KYCStatus:           rec.KYCStatus,
		Verified:            rec.KYCStatus == KYCApproved,
		IsVerified:          rec.KYCStatus == KYCApproved,
		WithinRadius:        radius.contains(distance),
		rawDistance:         distance,
	}
	if distance != nil {
		rounded := math.Round(*distance*10) / 10
		out.DistanceKm = &rounded
		out.Distance = strconv.FormatFloat(rounded, 'f', 1, 64) + " km"
	}
	if eta != nil {
		out.ETAMinutes = eta
		out.ETA = fmt.Sprintf("%d mins", *eta)
	}
	return out
}

func etaFor(distance *float64) *int {
	if distance == nil {
		return nil
	}
	eta := int(math.Max(minETAMinutes, math.Round(*distance*minutesPerKm)))
	return &eta
}

func responseTimeFor(rec TechnicianRecord) float64 {
	if rec.ResponseTimeMinutes != nil {
		return *rec.ResponseTimeMinutes
	}
	return math.Max(minResponseMinutes, math.Round(float64(rec.TotalJobs)/jobsPerResponseMin))
}

func badgesFor(rec TechnicianRecord) []string {
	badges := make([]string, 0, 4)
	if rec.AverageRating >= topRatedThreshold {
		badges = append(badges, BadgeTopRated)
	}
	if rec.TotalJobs >= popularJobsThreshold {
		badges = append(badges, BadgePopular)
	}
	if rec.YearsOfExperience >= expertYearsThreshold {
		badges = append(badges, BadgeExpert)
	}
	if rec.ServiceRadius >= cityWideRadiusKm {
		badges = append(badges, BadgeCityWide)
	}
	return badges
}

// sortByDistance orders ascending by distance with unknown distances last.
// Equal keys keep their directory order.
func sortByDistance(items []RankedTechnician) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].rawDistance, items[j].rawDistance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// summarize aggregates total, radius and category counts over all annotated
// candidates, and the mean ETA over the returned page only.
func summarize(all, page []RankedTechnician, radius radiusFilter) Summary {
	summary := Summary{
		Total:             len(all),
		CategoryBreakdown: make(map[string]int),
	}
	for _, tech := range all {
		if !radius.enabled || tech.WithinRadius {
			summary.WithinRadius++
		}
		for _, label := range tech.Specializations {
			summary.CategoryBreakdown[label]++
		}
	}

	var (
		etaSum   int
		etaCount int
	)
	for _, tech := range page {
		if tech.ETAMinutes == nil {
			continue
		}
		etaSum += *tech.ETAMinutes
		etaCount++
	}
	if etaCount > 0 {
		avg := float64(etaSum) / float64(etaCount)
		summary.AverageETA = &avg
	}
	return summary
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
