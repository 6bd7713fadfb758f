package patient

import (
	"context"
	"errors"

	"github.com/odonto/clinica/internal/domain/address"
	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/pkg/pagination"
)

// ErrNoAnamnesis is returned by Anamnesis when the patient exists but has
// not filled one in.
var ErrNoAnamnesis = errors.New("anamnese não encontrada")

// Contacts is the part of the contact service a patient needs.
type Contacts interface {
	CreateForPatient(ctx context.Context, patientID int64, in *contact.Input) (*contact.Contact, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*contact.Contact, error)
}

// Anamneses is the part of the anamnesis service a patient needs.
type Anamneses interface {
	GetByPatient(ctx context.Context, patientID int64) (*anamnesis.Anamnesis, error)
	DeleteByPatient(ctx context.Context, patientID int64) error
}

// AppointmentPurger removes every appointment of a patient.
type AppointmentPurger interface {
	DeleteByPatient(ctx context.Context, patientID int64) error
}

type Service struct {
	repo         Repository
	addresses    address.Repository
	contacts     Contacts
	anamneses    Anamneses
	appointments AppointmentPurger
	tx           db.Transactor
}

func NewService(repo Repository, addresses address.Repository, contacts Contacts, anamneses Anamneses, appointments AppointmentPurger, tx db.Transactor) *Service {
	return &Service{
		repo:         repo,
		addresses:    addresses,
		contacts:     contacts,
		anamneses:    anamneses,
		appointments: appointments,
		tx:           tx,
	}
}

// Create stores the patient and, when the payload embeds one, a new address
// in the same transaction.
func (s *Service) Create(ctx context.Context, in *Input) (*Patient, error) {
	if err := in.Validate(false, false).Err(); err != nil {
		return nil, err
	}
	p := &Patient{Status: StatusAtivo}
	in.Apply(p)

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if in.WantsAddress() {
			a := &address.Address{}
			in.Endereco.Value.Apply(a)
			if err := s.addresses.Create(ctx, a); err != nil {
				return err
			}
			p.AddressID = &a.ID
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the supplied keys. An embedded address is merged into the
// patient's current address in place, or created and attached when the
// patient has none; a missing or null endereco leaves the reference alone.
func (s *Service) Update(ctx context.Context, id int64, in *Input, partial bool) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(partial, p.AddressID != nil).Err(); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if in.WantsAddress() {
			if err := s.writeAddress(ctx, p, &in.Endereco.Value); err != nil {
				return err
			}
		}
		in.Apply(p)
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) writeAddress(ctx context.Context, p *Patient, in *address.Input) error {
	if p.AddressID == nil {
		a := &address.Address{}
		in.Apply(a)
		if err := s.addresses.Create(ctx, a); err != nil {
			return err
		}
		p.AddressID = &a.ID
		return nil
	}
	a, err := s.addresses.GetByID(ctx, *p.AddressID)
	if err != nil {
		return err
	}
	in.Apply(a)
	return s.addresses.Update(ctx, a)
}

// Delete removes the patient with its anamnesis, appointments and contact
// links. Contacts and the address are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return db.ErrNotFound
		}
		if err := s.anamneses.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.appointments.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	for _, pt := range items {
		if err := s.hydrate(ctx, pt); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// AddContact creates a contact and links it to the patient.
func (s *Service) AddContact(ctx context.Context, id int64, in *contact.Input) (*contact.Contact, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	var c *contact.Contact
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		c, err = s.contacts.CreateForPatient(ctx, id, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddAddress always creates a new address and points the patient at it,
// even when the patient already has one. The previous row is left as is.
func (s *Service) AddAddress(ctx context.Context, id int64, in *address.Input) (*address.Address, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	if err := in.Validate(false).Err(); err != nil {
		return nil, err
	}
	a := &address.Address{}
	in.Apply(a)
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.addresses.Create(ctx, a); err != nil {
			return err
		}
		return s.repo.SetAddress(ctx, id, a.ID)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Contacts(ctx context.Context, id int64) ([]*contact.Contact, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	return s.contacts.ListByPatient(ctx, id)
}

func (s *Service) Anamnesis(ctx context.Context, id int64) (*anamnesis.Anamnesis, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return nil, err
	}
	a, err := s.anamneses.GetByPatient(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNoAnamnesis
	}
	return a, err
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) mustExist(ctx context.Context, id int64) error {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return db.ErrNotFound
	}
	return nil
}

// hydrate fills the read-only relations rendered with a patient.
func (s *Service) hydrate(ctx context.Context, p *Patient) error {
	if p.AddressID != nil {
		a, err := s.addresses.GetByID(ctx, *p.AddressID)
		if err != nil {
			return err
		}
		p.Endereco = a
	}

	contatos, err := s.contacts.ListByPatient(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Contatos = contatos

	a, err := s.anamneses.GetByPatient(ctx, p.ID)
	switch {
	case err == nil:
		p.Anamnese = a
	case errors.Is(err, db.ErrNotFound):
		p.Anamnese = nil
	default:
		return err
	}
	return nil
}
