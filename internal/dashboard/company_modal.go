package dashboard

import (
	"context"
	"strconv"

	"github.com/0x13a/jobdash/internal/company"

	"github.com/pkg/errors"
)

type ModalMode string

const (
	ModeCreate ModalMode = "create"
	ModeEdit   ModalMode = "edit"
)

var ErrCompanyNotFound = errors.New("company not found")

type CompanyMutator interface {
	CreateCompany(ctx context.Context, req company.Request) (company.Company, error)
	UpdateCompany(ctx context.Context, id int64, req company.Request) (company.Company, error)
	DeleteCompany(ctx context.Context, id int64) error
}

type CompanyModal struct {
	Mode  ModalMode
	Form  company.Form
	Error string
}

func (m CompanyModal) Title() string {
	if m.Mode == ModeEdit {
		return "Edit Company"
	}
	return "Add Company"
}

// OpenCompanyModal opens the modal in create mode when id is empty and in edit
// mode, pre-filled from the matching company, otherwise.
func OpenCompanyModal(companies []company.Company, id string) (CompanyModal, error) {
	if id == "" {
		return CompanyModal{Mode: ModeCreate, Form: company.Form{Enabled: true}}, nil
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return CompanyModal{}, errors.Wrapf(ErrCompanyNotFound, "invalid company id %q", id)
	}
	c, ok := company.FindByID(companies, n)
	if !ok {
		return CompanyModal{}, errors.Wrapf(ErrCompanyNotFound, "company id %d", n)
	}
	return CompanyModal{Mode: ModeEdit, Form: company.FormFromCompany(c)}, nil
}

// ReopenCompanyModal shows a rejected submission again with its values.
func ReopenCompanyModal(f company.Form, err error) CompanyModal {
	m := CompanyModal{Mode: ModeCreate, Form: f, Error: err.Error()}
	if f.IsEdit() {
		m.Mode = ModeEdit
	}
	return m
}

// SubmitCompany issues a create call when the form carries no id and an update
// call for that id otherwise.
func SubmitCompany(ctx context.Context, m CompanyMutator, f company.Form) (ModalMode, company.Company, error) {
	req, err := f.Request()
	if err != nil {
		return "", company.Company{}, err
	}
	if !f.IsEdit() {
		c, err := m.CreateCompany(ctx, req)
		return ModeCreate, c, err
	}
	id, err := f.CompanyID()
	if err != nil {
		return "", company.Company{}, err
	}
	c, err := m.UpdateCompany(ctx, id, req)
	return ModeEdit, c, err
}
