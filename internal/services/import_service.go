package services

import (
	"log"
	"time"

	"github.com/google/uuid"

	"salescrm/internal/bulkfile"
	"salescrm/internal/models"
)

// LeadImportStore is the slice of the lead store bulk import touches.
// *repositories.LeadRepository implements it.
type LeadImportStore interface {
	FindExistingPhones(phones []string) (map[string]bool, error)
	InsertBulk(leads []*models.Lead) (created int, lateDuplicates []string, err error)
}

// CategoryChecker validates category references before an import writes
// anything.
type CategoryChecker interface {
	Exists(id int) (bool, error)
}

// ImportResult itemizes the outcome of one uploaded file. Duplicates counts
// keys already present in the store (including ones that appeared between
// the existence check and the insert); SelfDeduped counts repeats within
// the file itself.
type ImportResult struct {
	BatchID     string                 `json:"batch_id"`
	Created     int                    `json:"created"`
	Duplicates  int                    `json:"duplicates"`
	SelfDeduped int                    `json:"self_deduped"`
	Rejected    []bulkfile.RejectedRow `json:"rejected"`
}

type ImportService struct {
	parser *bulkfile.Parser
	leads  LeadImportStore
	cats   CategoryChecker
	emails EmailService
}

func NewImportService(parser *bulkfile.Parser, leads LeadImportStore, cats CategoryChecker, emails EmailService) *ImportService {
	return &ImportService{parser: parser, leads: leads, cats: cats, emails: emails}
}

// ImportFile parses an uploaded blob, drops the candidates that already
// exist, and creates the rest as unassigned leads in the given category.
// Individual bad or duplicate rows never fail the batch; only the parser
// caps and store failures do.
func (s *ImportService) ImportFile(data []byte, hint string, categoryID int, notifyEmail string) (*ImportResult, error) {
	ok, err := s.cats.Exists(categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownCategory
	}

	parsed, err := s.parser.Parse(data, hint)
	if err != nil {
		return nil, err
	}

	toCreate, duplicates, err := s.partition(parsed.Candidates)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	leads := make([]*models.Lead, 0, len(toCreate))
	for _, key := range toCreate {
		leads = append(leads, &models.Lead{
			Phone:      key,
			CategoryID: categoryID,
			Status:     models.LeadStatusNew,
			Priority:   models.PriorityMedium,
			Source:     models.SourceBulk,
			CreatedAt:  now,
		})
	}

	created, lateDuplicates, err := s.leads.InsertBulk(leads)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{
		BatchID:     uuid.NewString(),
		Created:     created,
		Duplicates:  len(duplicates) + len(lateDuplicates),
		SelfDeduped: parsed.SelfDeduped,
		Rejected:    parsed.Rejected,
	}

	if s.emails != nil && notifyEmail != "" {
		if err := s.emails.SendImportSummary(notifyEmail, res.BatchID, res.Created, res.Duplicates, len(res.Rejected)); err != nil {
			// warn but do not fail the import
			log.Printf("[import] warning: failed to send summary email to %s: %v", notifyEmail, err)
		}
	}
	return res, nil
}

// partition splits candidates into {not yet stored, already stored} with a
// single batched existence query, preserving candidate order. The store's
// unique constraint remains the real guarantee; this is the cheap first
// pass.
func (s *ImportService) partition(candidates []string) (toCreate, duplicates []string, err error) {
	if len(candidates) == 0 {
		return nil, nil, nil
	}
	existing, err := s.leads.FindExistingPhones(candidates)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range candidates {
		if existing[key] {
			duplicates = append(duplicates, key)
			continue
		}
		toCreate = append(toCreate, key)
	}
	return toCreate, duplicates, nil
}
