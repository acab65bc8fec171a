package domain

import (
	"context"
	"strings"
	"time"

	"skillmates-backend/pkg/relevance"
)

// Profile roles
const (
	RoleLearner = "learner"
	RoleTeacher = "teacher"
	RoleBoth    = "both"
)

// Expertise levels
const (
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseAdvanced     = "advanced"
	ExpertiseExpert       = "expert"
)

// FilterAll disables a role or expertise filter.
const FilterAll = "all"

type Profile struct {
	UserID           string            `json:"user_id"`
	Username         string            `json:"username"`
	Name             string            `json:"name"`
	Bio              string            `json:"bio"`
	Role             string            `json:"role"`
	Location         string            `json:"location"`
	ExpertiseLevel   string            `json:"expertise_level"`
	Skills           []string          `json:"skills"`
	Languages        []string          `json:"languages"`
	Availability     string            `json:"availability"`
	PhotoURL         string            `json:"photo_url"`
	Pricing          string            `json:"pricing"`
	SocialLinks      map[string]string `json:"social_links"`
	Rating           *float64          `json:"rating,omitempty"`
	TotalSessions    int               `json:"total_sessions"`
	TotalConnections int               `json:"total_connections"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	storedName string
	shownName  string
}

// DisplayName falls back to the username when no name was set.
func (p *Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	if p.Username != "" {
		return p.Username
	}
	return "User"
}

// ApplyDefaults fills the fields members commonly leave empty. Name is
// replaced by DisplayName; the member's own name stays available through
// StoredName.
func (p *Profile) ApplyDefaults() {
	if p.Name != p.shownName {
		p.storedName = strings.TrimSpace(p.Name)
	}
	p.Name = p.DisplayName()
	p.shownName = p.Name
	if p.Role == "" {
		p.Role = RoleLearner
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	if p.SocialLinks == nil {
		p.SocialLinks = map[string]string{}
	}
}

// SetName replaces the member's own name.
func (p *Profile) SetName(name string) {
	p.Name = name
	p.storedName = strings.TrimSpace(name)
	p.shownName = ""
}

// StoredName is the name the member set, without the username fallback.
func (p *Profile) StoredName() string {
	if p.shownName != "" {
		return p.storedName
	}
	return strings.TrimSpace(p.Name)
}

// ToCandidate projects the profile onto the fields search ranks on. An
// unset name ranks as empty, so the username never earns a name match.
func (p *Profile) ToCandidate() relevance.Candidate {
	return relevance.Candidate{
		ID:             p.UserID,
		Username:       p.Username,
		Name:           p.StoredName(),
		Bio:            p.Bio,
		Role:           p.Role,
		Location:       p.Location,
		ExpertiseLevel: p.ExpertiseLevel,
		Skills:         p.Skills,
		Languages:      p.Languages,
	}
}

// Summary is the short form shown next to chats and connections.
func (p *Profile) Summary() MemberSummary {
	return MemberSummary{
		UserID:   p.UserID,
		Name:     p.DisplayName(),
		Role:     p.Role,
		PhotoURL: p.PhotoURL,
		Location: p.Location,
	}
}

type MemberSummary struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photo_url"`
	Location string `json:"location"`
}

type UpdateProfileRequest struct {
	Name           string            `json:"name" validate:"omitempty,valid_name,max=100"`
	Bio            string            `json:"bio" validate:"max=500,no_emoji"`
	Role           string            `json:"role" validate:"omitempty,oneof=learner teacher both"`
	Location       string            `json:"location" validate:"max=100,no_emoji"`
	ExpertiseLevel string            `json:"expertise_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Skills         []string          `json:"skills" validate:"tag_list"`
	Languages      []string          `json:"languages" validate:"tag_list"`
	Availability   string            `json:"availability" validate:"max=200"`
	Pricing        string            `json:"pricing" validate:"max=100"`
	SocialLinks    map[string]string `json:"social_links" validate:"max=10,dive,keys,max=30,endkeys,omitempty,url"`
}

type AddSkillRequest struct {
	Skill string `json:"skill" validate:"required,max=50,no_emoji"`
}

// PublicProfile is a profile as seen by another member.
type PublicProfile struct {
	Profile
	ConnectionStatus ViewerStatus `json:"connection_status"`
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	UpdateSkills(ctx context.Context, userID string, skills []string) error
	UpdatePhoto(ctx context.Context, userID, url string) error
	// List returns profiles matching the filter, excluding excludeID, plus the total count.
	List(ctx context.Context, filter DirectoryFilter, excludeID string) ([]Profile, int, error)
	// ListAll returns every profile in creation order; search ranks over it.
	ListAll(ctx context.Context) ([]Profile, error)
	GetSummaries(ctx context.Context, userIDs []string) (map[string]MemberSummary, error)
}

type ProfileUsecase interface {
	GetMyProfile(ctx context.Context) (*Profile, error)
	UpdateMyProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	AddSkill(ctx context.Context, skill string) ([]string, error)
	RemoveSkill(ctx context.Context, skill string) ([]string, error)
	UploadPhoto(ctx context.Context, data []byte, meta ClientMeta) (string, error)
	GetPublicProfile(ctx context.Context, userID string) (*PublicProfile, error)
}
