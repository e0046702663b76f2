package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prbot/prbot/internal/commands"
	"github.com/prbot/prbot/internal/github"
	"github.com/prbot/prbot/internal/model"
	"github.com/prbot/prbot/internal/store"
	"github.com/prbot/prbot/pkg/crypto"
	"github.com/prbot/prbot/pkg/errors"
	"github.com/prbot/prbot/pkg/logger"
)

// ExternalHandler handles the endpoints reserved to external accounts, such
// as QA tooling reporting a verdict back onto pull requests.
type ExternalHandler struct {
	store  store.Store
	client github.Client
	syncer commands.Syncer
}

// NewExternalHandler creates a new external handler
func NewExternalHandler(s store.Store, client github.Client, syncer commands.Syncer) *ExternalHandler {
	return &ExternalHandler{store: s, client: client, syncer: syncer}
}

// qaStatusRequest is the body of POST /external/set-qa-status.
// A nil status resets the QA state to waiting. An empty number list is
// accepted and syncs nothing.
type qaStatusRequest struct {
	RepositoryPath     string `json:"repository_path" binding:"required"`
	PullRequestNumbers []int  `json:"pull_request_numbers"`
	Author             string `json:"author" binding:"required"`
	Status             *bool  `json:"status"`
}

// SetQaStatus handles POST /external/set-qa-status
func (h *ExternalHandler) SetQaStatus(c *gin.Context) {
	account, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req qaStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.Wrap(errors.ErrCodeValidation, "invalid request body", err))
		return
	}
	// gin's required binding rejects an empty array, so presence is
	// checked by hand: the field must exist, but may be empty.
	if req.PullRequestNumbers == nil {
		_ = c.Error(errors.New(errors.ErrCodeValidation, "pull_request_numbers is required"))
		return
	}

	path, err := model.ParseRepositoryPath(req.RepositoryPath)
	if err != nil {
		_ = c.Error(errors.Wrap(errors.ErrCodeValidation, "invalid repository path", err))
		return
	}

	qaStatus := model.QaStatusWaiting
	if req.Status != nil {
		if *req.Status {
			qaStatus = model.QaStatusPass
		} else {
			qaStatus = model.QaStatusFail
		}
	}

	logger.Info("External QA status modification",
		zap.String("qa_status", string(qaStatus)),
		zap.String("external_account", account.Username),
		zap.String("author", req.Author),
		zap.String("repository_path", req.RepositoryPath),
	)

	ctx := c.Request.Context()
	for _, number := range req.PullRequestNumbers {
		env := &commands.Env{
			Store:  h.store,
			Client: h.client,
			Syncer: h.syncer,
			Owner:  path.Owner,
			Name:   path.Name,
			Number: number,
			Author: req.Author,
		}
		if _, err := (commands.SetQa{Status: qaStatus}).Run(ctx, env); err != nil {
			_ = c.Error(err)
			return
		}

		if _, err := h.syncer.Process(ctx, path.Owner, path.Name, number, false); err != nil {
			_ = c.Error(err)
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// authenticate resolves the bearer token to an external account. The token
// issuer claim names the account; the signature is then checked against that
// account's public key. Any failure yields the same 401 so callers cannot
// probe for account names.
func (h *ExternalHandler) authenticate(c *gin.Context) (*model.ExternalAccount, bool) {
	unauthorized := func() (*model.ExternalAccount, bool) {
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    errors.ErrCodeUnauthorized,
			"message": "Could not validate credentials",
		})
		return nil, false
	}

	authHeader := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return unauthorized()
	}

	username, err := crypto.UnverifiedIssuer(token)
	if err != nil {
		logger.Warn("Could not decode external token", zap.Error(err))
		return unauthorized()
	}

	account, err := h.store.ExternalAccount().GetByUsername(username)
	if err != nil {
		logger.Warn("Unknown external account", zap.String("username", username))
		return unauthorized()
	}

	if err := crypto.VerifyAccessToken(token, account.PublicKey); err != nil {
		logger.Warn("Invalid external token",
			zap.String("username", username),
			zap.Error(err),
		)
		return unauthorized()
	}

	return account, true
}
