// Auth HTTP handlers.
//
// This file exposes the unauthenticated account endpoints plus logout:
//   - POST /auth/register
//   - POST /auth/login
//   - POST /auth/logout
//   - GET  /auth/verify?token=
//   - POST /auth/forgot-password
//   - POST /auth/reset-password
//
// Handlers are transport-thin: they decode and validate the DTO, call the
// service, and translate the result into a response.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christian-bayata/user-auth-api/internal/dto"
)

// Success messages of the auth endpoints.
const (
	MsgRegistered     = "Registration successful! Please check your email to verify your account"
	MsgLoggedOut      = "Logged out successfully"
	MsgEmailVerified  = "Email verified successfully"
	MsgResetLinkSent  = "If an account with that email exists, a password reset link has been sent"
	MsgPasswordReset  = "Password reset successfully"
	MsgPasswordUpdate = "Password updated successfully"
)

// Register godoc
// @ID          register
// @Summary     Register a new account
// @Description Creates an unverified user and emails a verification link.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      dto.RegisterUser  true  "Registration payload"
// @Success     201   {object}  dto.Response
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     409   {object}  httperr.Envelope  "Email already exists"
// @Failure     500   {object}  httperr.Envelope  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	in, err := dto.BindJSON[dto.RegisterUser](c)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.auth.Register(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.OK(MsgRegistered))
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Checks credentials, returns an access token and sets it as the HttpOnly "token" cookie.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      dto.LoginUser  true  "Credentials"
// @Success     200   {object}  dto.UserLoginResponse
// @Header      200   {string}  Set-Cookie  "token=<jwt>; HttpOnly"
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     401   {object}  httperr.Envelope  "Email or password is wrong"
// @Failure     500   {object}  httperr.Envelope  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	in, err := dto.BindJSON[dto.LoginUser](c)
	if err != nil {
		fail(c, err)
		return
	}
	tok, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	h.setTokenCookie(c, tok, int(h.cookie.MaxAge.Seconds()))
	ok(c, http.StatusOK, dto.UserLoginResponse{Status: dto.StatusSuccess, Token: tok})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears the token cookie. Bearer tokens stay valid until they expire.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  dto.Response
// @Failure     401  {object}  httperr.Envelope  "Not authenticated"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	ok(c, http.StatusOK, dto.OK(MsgLoggedOut))
}

// VerifyEmail godoc
// @ID          verifyEmail
// @Summary     Verify an email address
// @Tags        Auth
// @Produce     json
// @Param       token  query     string  true  "Verification token"
// @Success     200    {object}  dto.Response
// @Failure     400    {object}  httperr.Envelope  "Token missing"
// @Failure     401    {object}  httperr.Envelope  "Invalid or expired token"
// @Router      /auth/verify [get]
func (h *Handlers) VerifyEmail(c *gin.Context) {
	q, err := dto.BindQuery[dto.VerifyEmailQuery](c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), q); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.OK(MsgEmailVerified))
}

// ForgotPassword godoc
// @ID          forgotPassword
// @Summary     Request a password reset link
// @Description Always succeeds for a well-formed email so accounts cannot be probed.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      dto.ForgotPasswordRequest  true  "Account email"
// @Success     200   {object}  dto.Response
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     500   {object}  httperr.Envelope  "Internal error"
// @Router      /auth/forgot-password [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	in, err := dto.BindJSON[dto.ForgotPasswordRequest](c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.OK(MsgResetLinkSent))
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Reset a password with a reset token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      dto.ResetPasswordRequest  true  "Token and new password"
// @Success     200   {object}  dto.Response
// @Failure     400   {object}  httperr.Envelope  "Validation failed"
// @Failure     401   {object}  httperr.Envelope  "Invalid or expired token"
// @Router      /auth/reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	in, err := dto.BindJSON[dto.ResetPasswordRequest](c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.OK(MsgPasswordReset))
}
