// User HTTP handlers.
//
//   - GET /users/me
//   - GET /users?batch=&limit=      (admin)
//   - PUT /users/me/name
//   - PUT /users/me/password
//   - PUT /users/{id}/role          (admin)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/dto"
)

// Me godoc
// @ID          getMe
// @Summary     Current user
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  dto.UserResponse
// @Failure     401  {object}  httperr.Envelope  "Not authenticated"
// @Failure     404  {object}  httperr.Envelope  "User no longer exists"
// @Router      /users/me [get]
func (h *Handlers) Me(c *gin.Context) {
	u, found := currentUser(c)
	if !found {
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(u))
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users (paginated, admin)
// @Description Newest first. results is the total number of users. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
// @Param       batch          query   int     false  "Page number"     minimum(1) default(1)
// @Param       limit          query   int     false  "Items per page"  minimum(1) maximum(50) default(10)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200    {object}  dto.UserListResponse
// @Header      200    {string}  ETag  "Weak ETag for current result"
// @Success     304    "Not Modified"
// @Failure     400    {object}  httperr.Envelope  "Invalid query"
// @Failure     401    {object}  httperr.Envelope  "Not authenticated"
// @Failure     403    {object}  httperr.Envelope  "Permission denied"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	q, err := dto.BindQuery[dto.RequestQuery](c)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()

	// ETag pre-check (best effort).
	if count, maxTS, err := h.users.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		batch, limit := q.Pagination()
		etag := fmt.Sprintf(`W/"users:%d:%d:%d:%d"`, batch, limit, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.users.List(ctx, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.UserListResponse{
		Status:  dto.StatusSuccess,
		Users:   dto.FilterUsersFrom(items),
		Results: total,
	})
}

// UpdateName godoc
// @ID          updateName
// @Summary     Change the current user's name
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      dto.NameUpdate  true  "New name"
// @Success     200   {object}  dto.UserResponse
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     401   {object}  httperr.Envelope  "Not authenticated"
// @Router      /users/me/name [put]
func (h *Handlers) UpdateName(c *gin.Context) {
	me, found := currentUser(c)
	if !found {
		return
	}
	in, err := dto.BindJSON[dto.NameUpdate](c)
	if err != nil {
		fail(c, err)
		return
	}
	u, err := h.users.UpdateName(c.Request.Context(), me.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(u))
}

// UpdatePassword godoc
// @ID          updatePassword
// @Summary     Change the current user's password
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body  body      dto.UserUpdatePassword  true  "Old and new password"
// @Success     200   {object}  dto.Response
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     401   {object}  httperr.Envelope  "Wrong old password"
// @Router      /users/me/password [put]
func (h *Handlers) UpdatePassword(c *gin.Context) {
	me, found := currentUser(c)
	if !found {
		return
	}
	in, err := dto.BindJSON[dto.UserUpdatePassword](c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), me.ID, in); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.OK(MsgPasswordUpdate))
}

// UpdateRole godoc
// @ID          updateRole
// @Summary     Change a user's role (admin)
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id    path      string          true  "User ID"  format(uuid)
// @Param       body  body      dto.RoleUpdate  true  "New role"
// @Success     200   {object}  dto.UserResponse
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     403   {object}  httperr.Envelope  "Permission denied"
// @Failure     404   {object}  httperr.Envelope  "User no longer exists"
// @Router      /users/{id}/role [put]
func (h *Handlers) UpdateRole(c *gin.Context) {
	in, err := dto.BindJSON[dto.RoleUpdate](c)
	if err != nil {
		fail(c, err)
		return
	}
	u, err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(u))
}
