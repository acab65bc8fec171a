package usecase

import (
	"context"
	"errors"
	"strings"

	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/security"
	"skillmates-backend/pkg/storage"
	"skillmates-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PhotoStore persists processed profile photos and returns their public URL.
type PhotoStore interface {
	PutPhoto(ctx context.Context, userID, name string, data []byte) (string, error)
}

type profileUsecase struct {
	repo         domain.ProfileRepository
	connRepo     domain.ConnectionRepository
	photos       PhotoStore
	limiter      *security.UploadLimiter
	validate     *validator.Validate
	maxDimension int
}

// NewProfileUsecase wires profile operations. photos may be nil when storage is not configured.
func NewProfileUsecase(
	repo domain.ProfileRepository,
	connRepo domain.ConnectionRepository,
	photos PhotoStore,
	limiter *security.UploadLimiter,
	validate *validator.Validate,
	maxDimension int,
) domain.ProfileUsecase {
	if maxDimension <= 0 {
		maxDimension = 512
	}
	return &profileUsecase{
		repo:         repo,
		connRepo:     connRepo,
		photos:       photos,
		limiter:      limiter,
		validate:     validate,
		maxDimension: maxDimension,
	}
}

func (u *profileUsecase) GetMyProfile(ctx context.Context) (*domain.Profile, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}
	return profile, nil
}

func (u *profileUsecase) UpdateMyProfile(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Bio = strings.TrimSpace(req.Bio)
	req.Location = strings.TrimSpace(req.Location)
	req.Skills = normalizeTags(req.Skills)
	req.Languages = normalizeTags(req.Languages)
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}

	profile.SetName(req.Name)
	profile.Bio = req.Bio
	profile.Role = req.Role
	profile.Location = req.Location
	profile.ExpertiseLevel = req.ExpertiseLevel
	profile.Skills = req.Skills
	profile.Languages = req.Languages
	profile.Availability = strings.TrimSpace(req.Availability)
	profile.Pricing = strings.TrimSpace(req.Pricing)
	profile.SocialLinks = req.SocialLinks
	profile.ApplyDefaults()

	if err := u.repo.Update(ctx, profile); err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}
	return profile, nil
}

func (u *profileUsecase) AddSkill(ctx context.Context, skill string) ([]string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	req := domain.AddSkillRequest{Skill: strings.TrimSpace(skill)}
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}
	if indexFold(profile.Skills, req.Skill) >= 0 {
		return nil, apperror.Conflict("Skill already added")
	}
	if len(profile.Skills) >= validation.MaxSkills {
		return nil, apperror.BadRequest("You can list at most 30 skills")
	}

	skills := append(append([]string{}, profile.Skills...), req.Skill)
	if err := u.repo.UpdateSkills(ctx, userID, skills); err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}
	return skills, nil
}

func (u *profileUsecase) RemoveSkill(ctx context.Context, skill string) ([]string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}

	i := indexFold(profile.Skills, strings.TrimSpace(skill))
	if i < 0 {
		return nil, apperror.NotFound("Skill not found")
	}
	skills := append(append([]string{}, profile.Skills[:i]...), profile.Skills[i+1:]...)

	if err := u.repo.UpdateSkills(ctx, userID, skills); err != nil {
		return nil, wrapRepoErr(err, "Profile not found")
	}
	return skills, nil
}

func (u *profileUsecase) UploadPhoto(ctx context.Context, data []byte, meta domain.ClientMeta) (string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return "", err
	}
	if u.photos == nil {
		return "", apperror.ServiceUnavailable("Photo storage is not configured", nil)
	}

	allowed, retryAfter, err := u.limiter.AllowUpload(ctx, meta.IP, userID)
	if err != nil {
		return "", apperror.ServiceUnavailable("Upload limiter unavailable", err)
	}
	if !allowed {
		return "", apperror.TooManyRequests(tooManyUploads(retryAfter))
	}

	jpeg, err := storage.CompressImage(data, u.maxDimension, 85)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) || errors.Is(err, storage.ErrImageTooLarge) {
			return "", apperror.BadRequest(err.Error())
		}
		return "", apperror.BadRequest("Could not read image")
	}

	url, err := u.photos.PutPhoto(ctx, userID, uuid.NewString(), jpeg)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if err := u.repo.UpdatePhoto(ctx, userID, url); err != nil {
		return "", wrapRepoErr(err, "Profile not found")
	}
	return url, nil
}

func (u *profileUsecase) GetPublicProfile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, wrapRepoErr(err, "User not found")
	}

	viewerID := domain.UserIDFrom(ctx)
	var conns []domain.Connection
	if viewerID != "" && viewerID != userID {
		if conns, err = u.connRepo.Between(ctx, viewerID, userID); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	return &domain.PublicProfile{
		Profile:          *profile,
		ConnectionStatus: domain.ResolveViewerStatus(viewerID, userID, conns),
	}, nil
}

// normalizeTags trims entries and drops blanks and case-insensitive duplicates, keeping first occurrence.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || indexFold(out, t) >= 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func indexFold(list []string, s string) int {
	for i, v := range list {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return -1
}

func tooManyUploads(retryAfter int) string {
	if retryAfter >= 3600 {
		return "Daily upload limit reached. Please try again later."
	}
	return "Too many uploads. Please wait a minute."
}
