package matching

// Specialty is a service category tag carried by technicians.
type Specialty string

const (
	SpecialtyPlumbing        Specialty = "plumbing"
	SpecialtyElectrical      Specialty = "electrical"
	SpecialtyHVAC            Specialty = "hvac"
	SpecialtyApplianceRepair Specialty = "appliance_repair"
	SpecialtyHandyman        Specialty = "handyman"
	SpecialtyCleaning        Specialty = "cleaning"
	SpecialtyGardening       Specialty = "gardening"
	SpecialtyComputerRepair  Specialty = "computer_repair"
)

// Specialties lists the known categories in catalog order.
var Specialties = []Specialty{
	SpecialtyPlumbing,
	SpecialtyElectrical,
	SpecialtyHVAC,
	SpecialtyApplianceRepair,
	SpecialtyHandyman,
	SpecialtyCleaning,
	SpecialtyGardening,
	SpecialtyComputerRepair,
}

// Status is the technician's working state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusOffline   Status = "offline"
)

// KYCStatus tracks identity verification.
type KYCStatus string

const (
	KYCNotSubmitted KYCStatus = "not_submitted"
	KYCUnderReview  KYCStatus = "under_review"
	KYCApproved     KYCStatus = "approved"
	KYCRejected     KYCStatus = "rejected"
)

// Location is a WGS84 coordinate in degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Account is the minimal account projection joined onto a technician.
type Account struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	Avatar string
}

// Review is a snapshot of the technician's most recent review.
type Review struct {
	Rating       float64 `json:"rating"`
	CustomerName string  `json:"customerName"`
	Comment      string  `json:"comment"`
}

// TechnicianRecord is a directory row. It is read-only to this package.
type TechnicianRecord struct {
	ID                  string
	Account             Account
	Specialties         []Specialty
	HourlyRate          float64
	AverageRating       float64
	TotalJobs           int
	YearsOfExperience   int
	ServiceRadius       float64
	CurrentStatus       Status
	KYCStatus           KYCStatus
	LastLocation        *Location
	ResponseTimeMinutes *float64
	RecentReview        *Review
}

// Eligible reports whether the record may be ranked.
func (r TechnicianRecord) Eligible() bool {
	return r.CurrentStatus == StatusAvailable && r.KYCStatus == KYCApproved
}

// Query carries the ranking inputs. Nil pointers mean "not supplied".
type Query struct {
	Category Specialty
	Lat      *float64
	Lng      *float64
	// RadiusKm defaults to Config.DefaultRadiusKm when nil. A non-finite
	// value disables the radius annotation.
	RadiusKm *float64
	Limit    int
}

// RankedTechnician is the annotated view returned to callers.
type RankedTechnician struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Avatar              string    `json:"avatar"`
	Rating              string    `json:"rating"`
	RatingValue         float64   `json:"ratingValue"`
	ReviewCount         int       `json:"reviewCount"`
	YearsOfExperience   int       `json:"yearsOfExperience"`
	Experience          string    `json:"experience"`
	Specializations     []string  `json:"specializations"`
	DistanceKm          *float64  `json:"distanceKm"`
	Distance            string    `json:"distance"`
	ETAMinutes          *int      `json:"etaMinutes"`
	ETA                 string    `json:"eta"`
	Availability        Status    `json:"availability"`
	IsAvailable         bool      `json:"isAvailable"`
	HourlyRate          float64   `json:"hourlyRate"`
	ResponseTimeMinutes float64   `json:"responseTimeMinutes"`
	ResponseTime        string    `json:"responseTime"`
	Badges              []string  `json:"badges"`
	RecentReview        *Review   `json:"recentReview"`
	Location            Location  `json:"location"`
	ServiceRadius       float64   `json:"serviceRadius"`
	KYCStatus           KYCStatus `json:"kycStatus"`
	Verified            bool      `json:"verified"`
	IsVerified          bool      `json:"isVerified"`
	WithinRadius        bool      `json:"withinRadius"`

	// unrounded distance used for ordering
	rawDistance *float64
}

// Summary aggregates a ranking response.
type Summary struct {
	Total             int            `json:"total"`
	WithinRadius      int            `json:"withinRadius"`
	CategoryBreakdown map[string]int `json:"categoryBreakdown"`
	AverageETA        *float64       `json:"averageEta"`
}

// Result is returned by FindAvailableTechnicians.
type Result struct {
	Technicians []RankedTechnician `json:"technicians"`
	Summary     Summary            `json:"summary"`
}

// CategoryOption is a catalog entry.
type CategoryOption struct {
	Value Specialty `json:"value"`
	Label string    `json:"label"`
}

// CategoryCount is a trending category with its search count.
type CategoryCount struct {
	Category Specialty `json:"category"`
	Label    string    `json:"label"`
	Count    int64     `json:"count"`
}
