package challans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"CPMS-backend/internal/platform/events"
	"CPMS-backend/internal/platform/logging"
	"CPMS-backend/internal/rental/numbering"
)

// ===== interfaces =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service =====

type Service struct {
	store *Store
	hub   *events.Hub
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB, hub *events.Hub) *Service {
	return &Service{
		store: NewStore(db),
		hub:   hub,
		clock: realClock{},
		id:    ulidGen{},
	}
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return NewInvalidArgumentError("at least one item is required")
	}
	for _, it := range items {
		if strings.TrimSpace(it.PlateSize) == "" {
			return NewInvalidArgumentError("plate_size is required on every item")
		}
		if it.Quantity < 0 {
			return NewInvalidArgumentError("quantity must be >= 0")
		}
	}
	return nil
}

// SuggestNumber scans the existing challan numbers and returns the next
// free one. The suggestion is only a hint; the unique index on
// challan_number decides collisions at insert time. When the scan fails
// the service falls back to "1" rather than surfacing the error.
func (s *Service) SuggestNumber(ctx context.Context) string {
	nums, err := s.store.ListNumbers(ctx)
	if err != nil {
		logging.LogError("challans", "SuggestNumber", err)
		return "1"
	}
	return numbering.Next(nums)
}

func (s *Service) Create(ctx context.Context, req CreateChallanRequest) (*ChallanResponse, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, NewInvalidArgumentError("client_id is required")
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	issueDate, err := time.Parse("2006-01-02", req.IssueDate)
	if err != nil {
		return nil, NewInvalidArgumentError("invalid issue_date format, expected YYYY-MM-DD")
	}

	number := strings.TrimSpace(req.ChallanNumber)
	if number == "" {
		number = s.SuggestNumber(ctx)
	}

	// UX pre-check only; the unique index is authoritative
	exists, err := s.store.NumberExists(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewConflictError("challan number already in use")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	ch := &Challan{
		ChallanULID:   idStr,
		ChallanNumber: number,
		ClientID:      req.ClientID,
		IssueDate:     issueDate,
		Status:        "active",
	}

	override := req.OverrideNote != nil && strings.TrimSpace(*req.OverrideNote) != ""

	if err := s.store.ExecCreate(ctx, ch, req.Items, override); err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, "challans", "create")
	return s.Get(ctx, ch.ChallanID)
}

func (s *Service) Get(ctx context.Context, challanID int64) (*ChallanResponse, error) {
	ch, items, err := s.store.GetWithItems(ctx, challanID)
	if err != nil {
		return nil, err
	}
	resp := buildResponse(ch, items)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, f ChallanFilter, p Page) ([]ChallanResponse, int64, error) {
	list, total, err := s.store.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(list))
	for _, ch := range list {
		ids = append(ids, ch.ChallanID)
	}
	itemsByID, err := s.store.ItemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]ChallanResponse, 0, len(list))
	for _, ch := range list {
		out = append(out, buildResponse(&ch, itemsByID[ch.ChallanID]))
	}
	return out, total, nil
}

func (s *Service) Update(ctx context.Context, challanID int64, req UpdateChallanRequest) (*ChallanResponse, error) {
	if req.ChallanNumber == nil && req.ClientID == nil && req.IssueDate == nil && req.Items == nil {
		return nil, NewInvalidArgumentError("nothing to update")
	}
	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			return nil, err
		}
	}

	var issueDate *time.Time
	if req.IssueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.IssueDate)
		if err != nil {
			return nil, NewInvalidArgumentError("invalid issue_date format, expected YYYY-MM-DD")
		}
		issueDate = &parsed
	}

	if err := s.store.ExecUpdate(ctx, challanID, req, issueDate); err != nil {
		return nil, err
	}

	s.hub.Publish(ctx, "challans", "update")
	return s.Get(ctx, challanID)
}

func (s *Service) Delete(ctx context.Context, challanID int64) error {
	if err := s.store.ExecDelete(ctx, challanID); err != nil {
		return err
	}
	s.hub.Publish(ctx, "challans", "delete")
	return nil
}

// ===== helpers =====

func buildResponse(ch *Challan, items []ChallanItem) ChallanResponse {
	resp := ChallanResponse{
		ChallanID:     ch.ChallanID,
		ChallanULID:   ch.ChallanULID,
		ChallanNumber: ch.ChallanNumber,
		ClientID:      ch.ClientID,
		IssueDate:     ch.IssueDate,
		Status:        ch.Status,
		CreatedAt:     ch.CreatedAt,
	}
	for _, it := range items {
		ir := ItemResponse{PlateSize: it.PlateSize, Quantity: it.Quantity}
		if it.Note.Valid {
			v := it.Note.String
			ir.Note = &v
		}
		resp.Items = append(resp.Items, ir)
	}
	return resp
}
