package patient

import (
	"context"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odonto/clinica/internal/domain/address"
	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/pkg/pagination"
)

// snapshotter lets fakeTx roll the in-memory stores back on error.
type snapshotter interface {
	snapshot() (restore func())
}

type fakeTx struct {
	stores []snapshotter
}

func (t *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), len(t.stores))
	for i, s := range t.stores {
		restores[i] = s.snapshot()
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// -- patients --

type fakePatients struct {
	items    map[int64]*Patient
	nextID   int64
	contacts *fakeContacts
}

func (f *fakePatients) snapshot() func() {
	items := make(map[int64]*Patient, len(f.items))
	for k, v := range f.items {
		cp := *v
		items[k] = &cp
	}
	nextID := f.nextID
	return func() { f.items, f.nextID = items, nextID }
}

func (f *fakePatients) checkCPF(p *Patient) error {
	for _, other := range f.items {
		if other.CPF == p.CPF && other.ID != p.ID {
			return &pgconn.PgError{Code: "23505", TableName: "pacientes", ConstraintName: "pacientes_cpf_key"}
		}
	}
	return nil
}

func (f *fakePatients) Create(_ context.Context, p *Patient) error {
	if err := f.checkCPF(p); err != nil {
		return err
	}
	f.nextID++
	p.ID = f.nextID
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePatients) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatients) Update(_ context.Context, p *Patient) error {
	if _, ok := f.items[p.ID]; !ok {
		return db.ErrNotFound
	}
	if err := f.checkCPF(p); err != nil {
		return err
	}
	cp := *p
	cp.Endereco, cp.Contatos, cp.Anamnese = nil, nil, nil
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePatients) SetAddress(_ context.Context, id, addressID int64) error {
	p, ok := f.items[id]
	if !ok {
		return db.ErrNotFound
	}
	p.AddressID = &addressID
	return nil
}

func (f *fakePatients) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.contacts.links, id)
	delete(f.items, id)
	return nil
}

func (f *fakePatients) List(_ context.Context, flt Filter, _ pagination.Params) ([]*Patient, int, error) {
	out := []*Patient{}
	for _, p := range f.items {
		hay := strings.ToLower(p.Nome + " " + p.CPF)
		if p.Email != nil {
			hay += " " + strings.ToLower(*p.Email)
		}
		match := true
		for _, term := range db.SearchTerms(strings.ToLower(flt.Search)) {
			if !strings.Contains(hay, term) {
				match = false
			}
		}
		if match {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, len(out), nil
}

func (f *fakePatients) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakePatients) Count(context.Context) (int, error) {
	return len(f.items), nil
}

// -- addresses --

type fakeAddresses struct {
	items  map[int64]*address.Address
	nextID int64
}

func (f *fakeAddresses) snapshot() func() {
	items := make(map[int64]*address.Address, len(f.items))
	for k, v := range f.items {
		cp := *v
		items[k] = &cp
	}
	nextID := f.nextID
	return func() { f.items, f.nextID = items, nextID }
}

func (f *fakeAddresses) Create(_ context.Context, a *address.Address) error {
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAddresses) GetByID(_ context.Context, id int64) (*address.Address, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAddresses) Update(_ context.Context, a *address.Address) error {
	if _, ok := f.items[a.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAddresses) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func (f *fakeAddresses) List(context.Context, address.Filter, pagination.Params) ([]*address.Address, int, error) {
	return nil, 0, nil
}

// -- contacts --

type fakeContacts struct {
	items  map[int64]*contact.Contact
	links  map[int64][]int64
	nextID int64
}

func (f *fakeContacts) snapshot() func() {
	items := make(map[int64]*contact.Contact, len(f.items))
	for k, v := range f.items {
		items[k] = v
	}
	links := make(map[int64][]int64, len(f.links))
	for k, v := range f.links {
		links[k] = append([]int64(nil), v...)
	}
	nextID := f.nextID
	return func() { f.items, f.links, f.nextID = items, links, nextID }
}

func (f *fakeContacts) CreateForPatient(_ context.Context, patientID int64, in *contact.Input) (*contact.Contact, error) {
	if err := in.Validate(false).Err(); err != nil {
		return nil, err
	}
	c := &contact.Contact{}
	in.Apply(c)
	f.nextID++
	c.ID = f.nextID
	f.items[c.ID] = c
	f.links[patientID] = append(f.links[patientID], c.ID)
	return c, nil
}

func (f *fakeContacts) ListByPatient(_ context.Context, patientID int64) ([]*contact.Contact, error) {
	out := []*contact.Contact{}
	for _, id := range f.links[patientID] {
		out = append(out, f.items[id])
	}
	return out, nil
}

// -- anamneses --

type fakeAnamneses struct {
	byPatient map[int64]*anamnesis.Anamnesis
}

func (f *fakeAnamneses) snapshot() func() {
	m := make(map[int64]*anamnesis.Anamnesis, len(f.byPatient))
	for k, v := range f.byPatient {
		m[k] = v
	}
	return func() { f.byPatient = m }
}

func (f *fakeAnamneses) GetByPatient(_ context.Context, patientID int64) (*anamnesis.Anamnesis, error) {
	a, ok := f.byPatient[patientID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return a, nil
}

func (f *fakeAnamneses) DeleteByPatient(_ context.Context, patientID int64) error {
	delete(f.byPatient, patientID)
	return nil
}

// -- appointments --

type fakeAppointments struct {
	byPatient map[int64]int
}

func (f *fakeAppointments) snapshot() func() {
	m := make(map[int64]int, len(f.byPatient))
	for k, v := range f.byPatient {
		m[k] = v
	}
	return func() { f.byPatient = m }
}

func (f *fakeAppointments) DeleteByPatient(_ context.Context, patientID int64) error {
	delete(f.byPatient, patientID)
	return nil
}

type fixture struct {
	svc          *Service
	patients     *fakePatients
	addresses    *fakeAddresses
	contacts     *fakeContacts
	anamneses    *fakeAnamneses
	appointments *fakeAppointments
}

func newFixture() *fixture {
	contacts := &fakeContacts{items: map[int64]*contact.Contact{}, links: map[int64][]int64{}}
	f := &fixture{
		patients:     &fakePatients{items: map[int64]*Patient{}, contacts: contacts},
		addresses:    &fakeAddresses{items: map[int64]*address.Address{}},
		contacts:     contacts,
		anamneses:    &fakeAnamneses{byPatient: map[int64]*anamnesis.Anamnesis{}},
		appointments: &fakeAppointments{byPatient: map[int64]int{}},
	}
	tx := &fakeTx{stores: []snapshotter{f.patients, f.addresses, f.contacts, f.anamneses, f.appointments}}
	f.svc = NewService(f.patients, f.addresses, f.contacts, f.anamneses, f.appointments, tx)
	return f
}
