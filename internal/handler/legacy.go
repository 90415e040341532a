package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/bluewall/userdir-server/internal/account"
	"github.com/bluewall/userdir-server/internal/directory"
)

// LegacyHandlers carries the original sample endpoints: a diagnostic
// echo, a bare account lookup, and the name/food demo store. Kept
// separate from the directory method set; the demo store has no
// identity key and no uniqueness guarantees.
type LegacyHandlers struct {
	svc *directory.Service
}

// NewLegacyHandlers creates the legacy method set.
func NewLegacyHandlers(svc *directory.Service) *LegacyHandlers {
	return &LegacyHandlers{svc: svc}
}

// Register installs the legacy methods into the routing table.
func (h *LegacyHandlers) Register(d *Dispatcher) {
	d.Register("testing", h.Testing)
	d.Register("get_user_info", h.GetUserInfo)
	d.Register("put_wxuser", h.PutName)
	d.Register("list_wxuser", h.ListNames)
}

// Testing echoes the request parameters back with a greeting. Requires
// the HELLO parameter.
func (h *LegacyHandlers) Testing(_ context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("HELLO") {
		return failureDoc("You must say HELLO!"), nil
	}

	doc := make(ResponseEnvelope, len(req)+1)
	doc["Greeting"] = "Goodbye!"
	for key, val := range req {
		doc[key] = val
	}
	return successDoc(doc), nil
}

// GetUserInfo looks up an account by user_id in the global scope.
func (h *LegacyHandlers) GetUserInfo(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("user_id") {
		return failureDoc(msgMissingParams), nil
	}
	userID, err := uuid.Parse(req["user_id"])
	if err != nil {
		return failureDoc(msgInvalidParam), nil
	}

	acc, err := h.svc.GetUserByID(ctx, userID, account.GlobalScope)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return failureDoc("Error getting user info"), nil
	}
	return successDoc(accountDoc(acc)), nil
}

// PutName stores a name/food demo record. A repeated name overwrites.
// Required: first_name, last_name, fav_food.
func (h *LegacyHandlers) PutName(ctx context.Context, req RequestEnvelope) (ResponseEnvelope, error) {
	if !req.Has("first_name", "last_name", "fav_food") {
		return failureDoc(msgMissingParams), nil
	}

	n := &account.Name{
		FirstName: req["first_name"],
		LastName:  req["last_name"],
		Food:      req["fav_food"],
	}
	if err := h.svc.StoreName(ctx, n); err != nil {
		return nil, err
	}
	return successDoc(nil), nil
}

// ListNames returns all demo records, one object per full name.
func (h *LegacyHandlers) ListNames(ctx context.Context, _ RequestEnvelope) (ResponseEnvelope, error) {
	names, err := h.svc.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	doc := make(ResponseEnvelope, len(names))
	for _, n := range names {
		fullName := n.FirstName + " " + n.LastName
		doc[fullName] = ResponseEnvelope{
			"name": fullName,
			"food": n.Food,
		}
	}
	return successDoc(doc), nil
}
