package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/bluewall/userdir-server/internal/account"
	"github.com/bluewall/userdir-server/internal/directory"
)

// DirectoryHandlers exposes the account-directory methods through a
// dispatcher.
type DirectoryHandlers struct {
	svc *directory.Service
}

// NewDirectoryHandlers creates the directory method set.
func NewDirectoryHandlers(svc *directory.Service) *DirectoryHandlers {
	return &DirectoryHandlers{svc: svc}
}

// Register installs the directory methods into the routing table.
func (h *DirectoryHandlers) Register(d *Dispatcher) {
	d.Register("create_user", h.CreateUser)
	d.Register("update_user", h.UpdateUser)
	d.Register("get_user_by_name", h.GetUserByName)
	d.Register("get_user_by_email", h.GetUserByEmail)
	d.Register("get_user_by_id", h.GetUserByID)
	d.Register("get_users_by_query", h.GetUsersByQuery)
}

// CreateUser creates an account.
// Required: first_name, last_name, email.
// Optional: scope_id, user_flags, user_level, user_title and the four
// service URL fields.
func (h *DirectoryHandlers) CreateUser(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("first_name", "last_name", "email") {
		return failureDoc(msgMissingParams), nil
	}

	scopeID, ok := parseScope(req)
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}
	userFlags, ok := parseOptionalInt(req, "user_flags")
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}
	userLevel, ok := parseOptionalInt(req, "user_level")
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.CreateUser(ctx, req["first_name"], req["last_name"], req["email"],
		scopeID, userFlags, userLevel, req["user_title"], serviceURLsFrom(req))
	if errors.Is(err, directory.ErrAlreadyExists) {
		return failureDoc("User already exists"), nil
	}
	if err != nil {
		return nil, err
	}
	return successDoc(accountDoc(acc)), nil
}

// UpdateUser replaces every mutable field of an existing account.
// Required: principal_id, first_name, last_name, email, scope_id,
// user_flags, user_level, user_title.
func (h *DirectoryHandlers) UpdateUser(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("principal_id", "first_name", "last_name", "email", "scope_id",
		"user_flags", "user_level", "user_title") {
		return failureDoc(msgMissingParams), nil
	}

	principalID, err := uuid.Parse(req["principal_id"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}
	scopeID, err := uuid.Parse(req["scope_id"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}
	userFlags, err := strconv.Atoi(req["user_flags"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}
	userLevel, err := strconv.Atoi(req["user_level"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.UpdateUser(ctx, principalID, req["first_name"], req["last_name"], req["email"],
		scopeID, userFlags, userLevel, req["user_title"], serviceURLsFrom(req))
	if errors.Is(err, directory.ErrNotFound) {
		return failureDoc("User does not exist"), nil
	}
	if err != nil {
		return nil, err
	}
	return successDoc(accountDoc(acc)), nil
}

// GetUserByName looks up an account by its first/last name pair.
// Required: first_name, last_name. Optional: scope_id.
func (h *DirectoryHandlers) GetUserByName(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("first_name", "last_name") {
		return failureDoc(msgMissingParams), nil
	}
	scopeID, ok := parseScope(req)
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.GetUserByName(ctx, req["first_name"], req["last_name"], scopeID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return failureDoc("Not found"), nil
	}
	return successDoc(accountDoc(acc)), nil
}

// GetUserByEmail looks up an account by email address.
// Required: email. Optional: scope_id.
func (h *DirectoryHandlers) GetUserByEmail(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("email") {
		return failureDoc(msgMissingParams), nil
	}
	scopeID, ok := parseScope(req)
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.GetUserByEmail(ctx, req["email"], scopeID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return failureDoc("Not found"), nil
	}
	return successDoc(accountDoc(acc)), nil
}

// GetUserByID looks up an account by principal ID.
// Required: principal_id. Optional: scope_id.
func (h *DirectoryHandlers) GetUserByID(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("principal_id") {
		return failureDoc(msgMissingParams), nil
	}
	principalID, err := uuid.Parse(req["principal_id"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}
	scopeID, ok := parseScope(req)
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.GetUserByID(ctx, principalID, scopeID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return failureDoc("Not found"), nil
	}
	return successDoc(accountDoc(acc)), nil
}

// GetUsersByQuery returns accounts matching a free-text query, one
// object per account keyed by principal ID. Zero matches is a failure,
// matching the original wire contract.
// Required: query. Optional: scope_id.
func (h *DirectoryHandlers) GetUsersByQuery(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("query") {
		return failureDoc(msgMissingParams), nil
	}
	scopeID, ok := parseScope(req)
	if !ok {
		return failureDoc(msgInvalidParam), nil
	}

	accounts, err := h.svc.GetUsersByQuery(ctx, req["query"], scopeID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return failureDoc("Not found"), nil
	}

	doc := make(ResponseEnvelope, len(accounts))
	for _, acc := range accounts {
		doc[acc.PrincipalID.String()] = accountDoc(acc)
	}
	return successDoc(doc), nil
}

// parseScope reads the optional scope_id parameter, defaulting to the
// global scope.
func parseScope(req RequestEnvelope) (uuid.UUID, bool) {
	raw, ok := req["scope_id"]
	if !ok || raw == "" {
		return account.GlobalScope, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalInt(req RequestEnvelope, key string) (int, bool) {
	raw, ok := req[key]
	if !ok || raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func serviceURLsFrom(req RequestEnvelope) account.ServiceURLs {
	return account.ServiceURLs{
		Home:       req["home_uri"],
		Gatekeeper: req["gatekeeper_uri"],
		Inventory:  req["inventory_uri"],
		Asset:      req["asset_uri"],
	}
}

// accountDoc flattens an account into the response field set.
func accountDoc(acc *account.Account) ResponseEnvelope {
	return ResponseEnvelope{
		"PrincipalID": acc.PrincipalID.String(),
		"ScopeID":     acc.ScopeID.String(),
		"FirstName":   acc.FirstName,
		"LastName":    acc.LastName,
		"Email":       acc.Email,
		"UserFlags":   acc.UserFlags,
		"UserLevel":   acc.UserLevel,
		"UserTitle":   acc.UserTitle,
		"Created":     acc.Created.Unix(),
		"ServiceURLs": ResponseEnvelope{
			"HomeURI":            acc.ServiceURLs.Home,
			"GatekeeperURI":      acc.ServiceURLs.Gatekeeper,
			"InventoryServerURI": acc.ServiceURLs.Inventory,
			"AssetServerURI":     acc.ServiceURLs.Asset,
		},
	}
}
