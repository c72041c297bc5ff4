package services

import (
	"strings"

	"github.com/google/uuid"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/repos"
)

// TableService manages the seating registry. Occupancy driven by the
// sale lifecycle bypasses this service; SetStatus here is the
// administrative override only.
type TableService struct {
	Tables *repos.TableRepo
}

func NewTableService(tables *repos.TableRepo) *TableService {
	return &TableService{Tables: tables}
}

func (s *TableService) Create(label string) (*domain.Table, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, apperr.Invalidf("table label is required")
	}
	exists, err := s.Tables.ExistsByLabel(label)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflictf("table %q already exists", label)
	}

	t := domain.Table{ID: uuid.NewString(), Label: label, Status: domain.TableFree}
	if err := s.Tables.Insert(t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TableService) List() ([]domain.Table, error) {
	return s.Tables.List()
}

func (s *TableService) ListFree() ([]domain.Table, error) {
	return s.Tables.ListByStatus(domain.TableFree)
}

func (s *TableService) SetStatus(id string, status domain.TableStatus) (*domain.Table, error) {
	if status != domain.TableFree && status != domain.TableOccupied {
		return nil, apperr.Invalidf("unknown table status %q", status)
	}
	if err := s.Tables.ForceStatus(id, status); err != nil {
		return nil, err
	}
	t, err := s.Tables.Get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TableService) Delete(id string) error {
	t, err := s.Tables.Get(id)
	if err != nil {
		return err
	}
	if t.Status != domain.TableFree {
		return apperr.Conflictf("table %s is occupied", id)
	}
	return s.Tables.Delete(id)
}
