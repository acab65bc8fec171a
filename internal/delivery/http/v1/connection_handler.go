package v1

import (
	"net/http"

	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionUC domain.ConnectionUsecase
}

func NewConnectionHandler(r *gin.RouterGroup, connectionUC domain.ConnectionUsecase) {
	handler := &ConnectionHandler{connectionUC: connectionUC}

	conns := r.Group("/connections")
	{
		conns.GET("", handler.ListSkillmates)
		conns.POST("", handler.SendRequest)
		conns.GET("/requests", handler.ListIncoming)
		conns.PUT("/:id", handler.Respond)
	}
}

// SendRequest godoc
// @Summary      Send a connection request
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SendConnectionRequest  true  "Recipient"
// @Success      201      {object}  response.Response{data=domain.Connection}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /connections [post]
// @Security     BearerAuth
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	var req domain.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	conn, err := h.connectionUC.SendRequest(c.Request.Context(), req.ToUserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Connection request sent", conn)
}

// ListIncoming godoc
// @Summary      Pending requests received
// @Tags         connections
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Connection}
// @Router       /connections/requests [get]
// @Security     BearerAuth
func (h *ConnectionHandler) ListIncoming(c *gin.Context) {
	conns, err := h.connectionUC.ListIncoming(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Connection requests", conns)
}

// Respond godoc
// @Summary      Accept or reject a request
// @Description  Accepting opens the chat between the two members.
// @Tags         connections
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Connection ID"
// @Param        request  body      domain.RespondConnectionRequest  true  "accepted or rejected"
// @Success      200      {object}  response.Response{data=domain.Connection}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /connections/{id} [put]
// @Security     BearerAuth
func (h *ConnectionHandler) Respond(c *gin.Context) {
	var req domain.RespondConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	conn, err := h.connectionUC.Respond(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Connection request "+string(conn.Status), conn)
}

// ListSkillmates godoc
// @Summary      Accepted connections
// @Tags         connections
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Skillmate}
// @Router       /connections [get]
// @Security     BearerAuth
func (h *ConnectionHandler) ListSkillmates(c *gin.Context) {
	mates, err := h.connectionUC.ListSkillmates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skillmates", mates)
}
