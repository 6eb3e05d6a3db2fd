package techrepo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

//go:embed seed_schema.json
var seedSchema string

type seedFile struct {
	Technicians []seedTechnician `json:"technicians"`
}

type seedTechnician struct {
	ID   string `json:"id"`
	User struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
	} `json:"user"`
	Specialties       []string `json:"specialties"`
	HourlyRate        float64  `json:"hourlyRate"`
	AverageRating     float64  `json:"averageRating"`
	TotalJobs         int      `json:"totalJobs"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	ServiceRadius     float64  `json:"serviceRadius"`
	CurrentStatus     string   `json:"currentStatus"`
	KYCStatus         string   `json:"kycStatus"`
	LastLocation      *struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"lastLocation"`
	ResponseTimeMinutes *float64         `json:"responseTimeMinutes"`
	RecentReview        *matching.Review `json:"recentReview"`
}

// LoadSeedFile reads and validates a directory seed file.
func LoadSeedFile(path string) ([]matching.TechnicianRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed validates raw seed JSON against the embedded schema and converts it.
func ParseSeed(data []byte) ([]matching.TechnicianRecord, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate seed: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("seed validation failed: %s", strings.Join(errs, "; "))
	}

	var file seedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	records := make([]matching.TechnicianRecord, 0, len(file.Technicians))
	for _, t := range file.Technicians {
		rec := matching.TechnicianRecord{
			ID: t.ID,
			Account: matching.Account{
				ID:     t.User.ID,
				Name:   t.User.Name,
				Email:  t.User.Email,
				Phone:  t.User.Phone,
				Avatar: t.User.Avatar,
			},
			Specialties:         toSpecialties(t.Specialties),
			HourlyRate:          t.HourlyRate,
			AverageRating:       t.AverageRating,
			TotalJobs:           t.TotalJobs,
			YearsOfExperience:   t.YearsOfExperience,
			ServiceRadius:       t.ServiceRadius,
			CurrentStatus:       matching.Status(t.CurrentStatus),
			KYCStatus:           matching.KYCStatus(t.KYCStatus),
			ResponseTimeMinutes: t.ResponseTimeMinutes,
			RecentReview:        t.RecentReview,
		}
		if t.LastLocation != nil {
			rec.LastLocation = toLocation(t.LastLocation.Lat, t.LastLocation.Lng)
		}
		records = append(records, rec)
	}
	return records, nil
}

func toSpecialties(tags []string) []matching.Specialty {
	out := make([]matching.Specialty, 0, len(tags))
	for _, tag := range tags {
		out = append(out, matching.ParseSpecialty(tag))
	}
	return out
}
