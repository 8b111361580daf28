package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ===== Error model =====

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	store *Store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

// ClientLedger recomputes one client's whole position from scratch.
func (s *Service) ClientLedger(ctx context.Context, clientID string) (*ClientLedgerResponse, error) {
	client, err := s.store.Client(ctx, clientID)
	if err != nil {
		return nil, err
	}

	issues, err := s.store.IssueDocs(ctx, &clientID)
	if err != nil {
		return nil, err
	}
	rets, err := s.store.ReturnDocs(ctx, &clientID)
	if err != nil {
		return nil, err
	}

	balances := Aggregate(issues, rets)
	active, completed := Classify(issues, balances, s.clock.Now())

	total := 0
	for _, b := range balances {
		total += b.Outstanding
	}

	return &ClientLedgerResponse{
		Client:           *client,
		Balances:         balances,
		TotalOutstanding: total,
		Active:           active,
		Completed:        completed,
		Timeline:         MergeTimeline(issues, rets),
	}, nil
}

// Balances aggregates for one client or, with nil, across all clients.
func (s *Service) Balances(ctx context.Context, clientID *string) (*BalancesResponse, error) {
	issues, err := s.store.IssueDocs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rets, err := s.store.ReturnDocs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &BalancesResponse{Balances: Aggregate(issues, rets)}, nil
}

func (s *Service) Timeline(ctx context.Context, clientID *string) (*TimelineResponse, error) {
	issues, err := s.store.IssueDocs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	rets, err := s.store.ReturnDocs(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &TimelineResponse{Transactions: MergeTimeline(issues, rets)}, nil
}

// Summary fans the count queries out as a fixed parallel batch and
// joins once all complete. The first error wins.
func (s *Service) Summary(ctx context.Context) (*SummaryResponse, error) {
	var (
		out  SummaryResponse
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs []error
	)

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(func() (err error) { out.Clients, err = s.store.CountClients(ctx); return })
	run(func() (err error) { out.Challans, err = s.store.CountChallans(ctx); return })
	run(func() (err error) { out.Returns, err = s.store.CountReturns(ctx); return })
	run(func() (err error) { out.Bills, err = s.store.CountBills(ctx); return })
	run(func() (err error) { out.StockSizes, out.PlatesOnRent, err = s.store.StockSummary(ctx); return })

	wg.Wait()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return &out, nil
}

// BackupRows assembles the per-client per-size export for every client.
func (s *Service) BackupRows(ctx context.Context) ([]BackupRow, error) {
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := s.store.IssueDocs(ctx, nil)
	if err != nil {
		return nil, err
	}
	rets, err := s.store.ReturnDocs(ctx, nil)
	if err != nil {
		return nil, err
	}

	byClient := make(map[string]*clientDocs)
	for _, doc := range issues {
		d := byClient[doc.ClientID]
		if d == nil {
			d = &clientDocs{}
			byClient[doc.ClientID] = d
		}
		d.issues = append(d.issues, doc)
	}
	for _, doc := range rets {
		d := byClient[doc.ClientID]
		if d == nil {
			d = &clientDocs{}
			byClient[doc.ClientID] = d
		}
		d.rets = append(d.rets, doc)
	}

	var rows []BackupRow
	now := s.clock.Now()
	for _, c := range clients {
		docs := byClient[c.ClientID]
		if docs == nil {
			docs = &clientDocs{}
		}
		rows = append(rows, BuildBackupRows(c, *docs, now)...)
	}
	return rows, nil
}
