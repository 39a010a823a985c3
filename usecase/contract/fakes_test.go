package contract

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type fakeContracts struct {
	mu   sync.Mutex
	rows map[string]*domain.Contract
	seq  int
	// locks records, per GetForUpdate call, whether it ran inside a transaction.
	locks []bool
}

func newFakeContracts() *fakeContracts {
	return &fakeContracts{rows: make(map[string]*domain.Contract)}
}

func (f *fakeContracts) get(id string) (*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.DeletedAt != nil {
		return nil, domain.ErrContractNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContracts) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	return f.get(id)
}

func (f *fakeContracts) GetForUpdate(ctx context.Context, id string) (*domain.Contract, error) {
	inTx, _ := ctx.Value(fakeTxKey{}).(bool)
	f.mu.Lock()
	f.locks = append(f.locks, inTx)
	f.mu.Unlock()
	return f.get(id)
}

func (f *fakeContracts) GetByExternalDocumentID(_ context.Context, documentID string) (*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.DeletedAt == nil && domain.StringValue(c.ExternalSignatureDocumentID) == documentID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrContractNotFound
}

func (f *fakeContracts) List(_ context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Contract
	for _, c := range f.rows {
		if c.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ProjectID != "" && domain.StringValue(c.ProjectID) != filter.ProjectID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContracts) Create(_ context.Context, c *domain.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = fmt.Sprintf("ctr-%d", f.seq)
	c.Touch()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeContracts) Update(_ context.Context, c *domain.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[c.ID]; !ok {
		return domain.ErrContractNotFound
	}
	c.Touch()
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeContracts) SoftDelete(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok || c.DeletedAt != nil {
		return domain.ErrContractNotFound
	}
	c.DeletedAt = &at
	return nil
}

func (f *fakeContracts) CountSigned(_ context.Context, projectID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.rows {
		if c.DeletedAt == nil && c.Status == domain.ContractSigned && domain.StringValue(c.ProjectID) == projectID {
			n++
		}
	}
	return n, nil
}

func (f *fakeContracts) put(c domain.Contract) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[c.ID] = &c
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.ContractEvent
}

func (f *fakeEvents) Append(_ context.Context, event domain.ContractEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Name
	}
	return out
}

type fakeTemplates struct {
	rows map[string]*domain.Template
}

func (f *fakeTemplates) GetByID(_ context.Context, id string) (*domain.Template, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTemplates) List(context.Context, repository.TemplateFilter) ([]domain.Template, error) {
	return nil, nil
}

func (f *fakeTemplates) Create(context.Context, *domain.Template) error { return nil }

func (f *fakeTemplates) Update(context.Context, *domain.Template) error { return nil }

func (f *fakeTemplates) SoftDelete(context.Context, string, time.Time) error { return nil }

func (f *fakeTemplates) NameTaken(context.Context, *string, string, string) (bool, error) {
	return false, nil
}

type fakeProjects struct {
	mu    sync.Mutex
	rows  map[string]*domain.Project
	flags []bool
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) SetHasSignedContract(_ context.Context, id string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.HasSignedContract = value
	f.flags = append(f.flags, value)
	return nil
}

type fakeCustomers struct {
	mu      sync.Mutex
	rows    map[string]*domain.Customer
	cascade []string
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) ActivateCascade(_ context.Context, id string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	f.cascade = append(f.cascade, id)
	var activated []string
	if c.Status != domain.CustomerActive {
		c.Status = domain.CustomerActive
		activated = append(activated, id)
	}
	if c.Company != nil {
		for _, lp := range c.Company.LinkedPeople {
			if linked, ok := f.rows[lp.CustomerID]; ok && linked.Status != domain.CustomerActive {
				linked.Status = domain.CustomerActive
				activated = append(activated, lp.CustomerID)
			}
		}
	}
	return activated, nil
}

type fakeScopes struct {
	rows map[string]*domain.Scope
}

func (f *fakeScopes) GetByID(_ context.Context, id string) (*domain.Scope, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrScopeNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeUsers struct {
	rows   map[string]*domain.User
	admins []string
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ListAdminIDs(context.Context) ([]string, error) {
	return f.admins, nil
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
	tracking      []domain.TrackingUpdate
	err           error
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingNotifier) Track(_ context.Context, u domain.TrackingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tracking = append(r.tracking, u)
	return nil
}

func (r *recordingNotifier) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications), len(r.tracking)
}

type fakeTxKey struct{}

// txRecorder runs fn inline, marks its context and counts transactions.
type txRecorder struct {
	mu    sync.Mutex
	count int
}

func (t *txRecorder) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.count++
	t.mu.Unlock()
	return fn(context.WithValue(ctx, fakeTxKey{}, true))
}
