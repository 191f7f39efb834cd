package domain

import "time"

// Platform identifies a social network a user may link from their profile.
type Platform string

const (
	PlatformGitHub   Platform = "github"
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
	PlatformWebsite  Platform = "website"
	PlatformDribbble Platform = "dribbble"
	PlatformBehance  Platform = "behance"
)

// knownPlatforms is the closed set of accepted social link keys.
var knownPlatforms = map[Platform]struct{}{
	PlatformGitHub:   {},
	PlatformLinkedIn: {},
	PlatformTwitter:  {},
	PlatformWebsite:  {},
	PlatformDribbble: {},
	PlatformBehance:  {},
}

// IsValid reports whether p belongs to the accepted platform set.
func (p Platform) IsValid() bool {
	_, ok := knownPlatforms[p]
	return ok
}

// Experience is a single entry in a user's work history.
type Experience struct {
	Title       string `json:"title" bson:"title"`
	Company     string `json:"company" bson:"company"`
	StartDate   string `json:"start_date" bson:"start_date"`
	EndDate     string `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// User is the account aggregate. Password holds the bcrypt hash only and is
// never serialized to JSON.
type User struct {
	ID            string              `json:"id"`
	Email         string              `json:"email"`
	Password      string              `json:"-"`
	Name          string              `json:"name"`
	Summary       string              `json:"summary"`
	SocialLinks   map[Platform]string `json:"social_links"`
	Experiences   []Experience        `json:"experiences"`
	Skills        []string            `json:"skills"`
	Achievements  []string            `json:"achievements"`
	Organizations []string            `json:"organizations"`
	Activated     bool                `json:"activated"`
	CreatedAt     time.Time           `json:"created_at"`
}
