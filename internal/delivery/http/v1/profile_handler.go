package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"
	"skillmates-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

const photoFormField = "photo"

type ProfileHandler struct {
	profileUC   domain.ProfileUsecase
	directoryUC domain.DirectoryUsecase
}

func NewProfileHandler(optional, protected *gin.RouterGroup, profileUC domain.ProfileUsecase, directoryUC domain.DirectoryUsecase) {
	handler := &ProfileHandler{profileUC: profileUC, directoryUC: directoryUC}

	me := protected.Group("/profile/me")
	{
		me.GET("", handler.GetMyProfile)
		me.PUT("", handler.UpdateMyProfile)
		me.POST("/skills", handler.AddSkill)
		me.DELETE("/skills/:skill", handler.RemoveSkill)
		me.POST("/photo", handler.UploadPhoto)
	}

	protected.GET("/users", handler.ListMembers)
	optional.GET("/users/:id", handler.GetPublicProfile)
}

// GetMyProfile godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Router       /profile/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMyProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// UpdateMyProfile godoc
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      domain.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Router       /profile/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.UpdateMyProfile(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// AddSkill godoc
// @Summary      Add a skill
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request  body      domain.AddSkillRequest  true  "Skill"
// @Success      201      {object}  response.Response{data=[]string}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /profile/me/skills [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddSkill(c *gin.Context) {
	var req domain.AddSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	skills, err := h.profileUC.AddSkill(c.Request.Context(), req.Skill)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Skill added", skills)
}

// RemoveSkill godoc
// @Summary      Remove a skill
// @Tags         profile
// @Produce      json
// @Param        skill  path      string  true  "Skill name"
// @Success      200    {object}  response.Response{data=[]string}
// @Failure      404    {object}  response.Response
// @Router       /profile/me/skills/{skill} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	skills, err := h.profileUC.RemoveSkill(c.Request.Context(), c.Param("skill"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skill removed", skills)
}

// UploadPhoto godoc
// @Summary      Upload profile photo
// @Description  JPEG or PNG up to 5MB; stored resized as JPEG.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo  formData  file  true  "Image file"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      413    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Failure      503    {object}  response.Response
// @Router       /profile/me/photo [post]
// @Security     BearerAuth
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxPhotoBytes+1<<20)

	fileHeader, err := c.FormFile(photoFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Photo must be at most 5MB", err))
			return
		}
		c.Error(apperror.BadRequest("Photo file is required"))
		return
	}
	if fileHeader.Size > storage.MaxPhotoBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Photo must be at most 5MB", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read photo"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxPhotoBytes+1))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read photo"))
		return
	}
	if len(data) > storage.MaxPhotoBytes {
		c.Error(apperror.New(http.StatusRequestEntityTooLarge, "Photo must be at most 5MB", nil))
		return
	}

	url, err := h.profileUC.UploadPhoto(c.Request.Context(), data, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Photo uploaded", gin.H{"photo_url": url})
}

// ListMembers godoc
// @Summary      Member directory
// @Tags         users
// @Produce      json
// @Param        role       query     string  false  "learner, teacher, both or all"
// @Param        expertise  query     string  false  "beginner, intermediate, advanced, expert or all"
// @Param        page       query     int     false  "Page (1-based)"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Success      200        {object}  response.Response{data=domain.MemberPage}
// @Router       /users [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListMembers(c *gin.Context) {
	filter := domain.DirectoryFilter{
		Role:      c.Query("role"),
		Expertise: c.Query("expertise"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "page_size"),
	}

	page, err := h.directoryUC.ListMembers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Members", page)
}

// GetPublicProfile godoc
// @Summary      Public profile
// @Description  Includes the caller's connection status when authenticated.
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.PublicProfile}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.profileUC.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// queryInt returns 0 for missing or malformed values so defaults apply.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
