package entities

type Country struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Region struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CountryID string `gorm:"index" json:"country_id"`
	Name      string `json:"name"`
}

type Agronomist struct {
	ID       string `gorm:"primaryKey" json:"id"`
	RegionID string `gorm:"index" json:"region_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type LandOwner struct {
	ID            string `gorm:"primaryKey" json:"id"`
	AgronomistID  string `gorm:"index" json:"agronomist_id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number,omitempty"`
}

type LandSegment struct {
	ID              string  `gorm:"primaryKey" json:"id"`
	LandOwnerID     string  `gorm:"index" json:"land_owner_id"`
	Name            string  `json:"name"`
	Area            float64 `json:"area"`
	AreaUnit        string  `json:"area_unit"` // hectares|acres
	Crop            string  `gorm:"index" json:"crop"`
	CultivationType string  `json:"cultivation_type,omitempty"`
}

// Hierarchy levels used in breadcrumbs.
const (
	LevelCountry     = "country"
	LevelRegion      = "region"
	LevelAgronomist  = "agronomist"
	LevelLandOwner   = "land_owner"
	LevelLandSegment = "land_segment"
)

type BreadcrumbItem struct {
	Level string `json:"level"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}
