package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/audit"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/dispatcher"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/ledger"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/application/port"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/apperr"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/authority"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/entity"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/event"
	"github.com/Keyron-info/HiranoKoumuten-PJ-sub000/internal/domain/workflow"
)

// Deps collects the engine's collaborators
type Deps struct {
	Invoices   port.InvoiceRepository
	Sites      port.SiteRepository
	Trail      *audit.Trail
	Ledger     *ledger.Ledger
	Gate       port.PeriodGate
	Tx         port.TransactionManager
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

type engineImpl struct {
	invoices   port.InvoiceRepository
	sites      port.SiteRepository
	trail      *audit.Trail
	ledger     *ledger.Ledger
	gate       port.PeriodGate
	tx         port.TransactionManager
	resolver   *workflow.ChainResolver
	dispatcher dispatcher.Dispatcher
	logger     *zap.Logger
}

// New creates the workflow engine
func New(deps Deps) Engine {
	return &engineImpl{
		invoices:   deps.Invoices,
		sites:      deps.Sites,
		trail:      deps.Trail,
		ledger:     deps.Ledger,
		gate:       deps.Gate,
		tx:         deps.Tx,
		resolver:   workflow.NewChainResolver(),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// loadForUpdate reads the invoice and fails fast when the caller's
// version is already stale. The conditional UPDATE in ApplyTransition
// still guards the race between this read and the commit.
func (e *engineImpl) loadForUpdate(ctx context.Context, invoiceID string, expectedVersion int64) (*entity.Invoice, error) {
	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Version != expectedVersion {
		return nil, apperr.Conflict("invoice %s was modified concurrently (version %d, expected %d)",
			invoiceID, inv.Version, expectedVersion)
	}
	return inv, nil
}

// machineFor builds the state machine matching the invoice's document
// type and its site's resolved approval chain
func (e *engineImpl) machineFor(ctx context.Context, inv *entity.Invoice) (workflow.StateMachine, error) {
	if inv.DocumentType == entity.DocumentTypeDeliveryNote {
		return workflow.BuildDeliveryNoteStateMachine(workflow.State(inv.Status)), nil
	}
	site, err := e.sites.GetByID(ctx, inv.ConstructionSiteID)
	if err != nil {
		return nil, err
	}
	stages := e.resolver.Stages(site.HasSupervisor())
	return workflow.BuildInvoiceStateMachine(workflow.State(inv.Status), stages, e.resolver.ReentryStage()), nil
}

// emit dispatches a domain event after commit. Asynchronous: subscriber
// failures never affect the committed transition.
func (e *engineImpl) emit(ctx context.Context, eventType event.Type, inv *entity.Invoice, previousStatus string) {
	if e.dispatcher == nil {
		return
	}
	evt := event.NewEvent(eventType, inv.ID, map[string]interface{}{
		"previous_status": previousStatus,
		"new_status":      inv.Status,
		"document_type":   string(inv.DocumentType),
		"company_id":      inv.SubmittingCompanyID,
	})
	e.dispatcher.DispatchAsync(ctx, evt)
}

func (e *engineImpl) CreateDraft(ctx context.Context, actor entity.Actor, input CreateDraftInput) (*entity.Invoice, error) {
	if !input.DocumentType.IsValid() {
		return nil, apperr.Validation("invalid document type %q", input.DocumentType)
	}
	if !actor.IsPartner() || actor.CompanyID != input.SubmittingCompanyID {
		return nil, apperr.Permission("actor %s may not create documents for company %s", actor.ID, input.SubmittingCompanyID)
	}
	if _, err := e.sites.GetByID(ctx, input.ConstructionSiteID); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:                  uuid.NewString(),
		Status:              string(workflow.StateDraft),
		DocumentType:        input.DocumentType,
		ConstructionSiteID:  input.ConstructionSiteID,
		SubmittingCompanyID: input.SubmittingCompanyID,
		TaxAmount:           input.TaxAmount,
		PaymentDueDate:      input.PaymentDueDate,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, it := range input.Items {
		inv.AddItem(&entity.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Quantity.Mul(it.UnitPrice),
		})
	}

	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		return e.invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Draft created",
		zap.String("invoice_id", inv.ID),
		zap.String("document_type", string(inv.DocumentType)),
		zap.String("company_id", inv.SubmittingCompanyID))

	return inv, nil
}

func (e *engineImpl) Submit(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error) {
	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	if !authority.CanAct(actor, workflow.State(inv.Status), authority.ActionSubmit) {
		return nil, apperr.Permission("actor %s may not submit documents", actor.ID)
	}
	if actor.CompanyID != inv.SubmittingCompanyID {
		return nil, apperr.Permission("actor %s does not belong to the submitting company", actor.ID)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !machine.CanFire(workflow.TriggerSubmit) {
		return nil, apperr.InvalidState("invoice %s cannot be submitted from status %s", inv.ID, inv.Status)
	}

	if err := inv.ValidateForSubmit(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, "document %s is not submittable", inv.ID)
	}

	now := time.Now()
	open, err := e.gate.IsPeriodOpen(ctx, inv.SubmittingCompanyID, now)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, apperr.PeriodClosed("accounting period is closed for submissions by company %s", inv.SubmittingCompanyID)
	}

	previous := inv.Status
	if _, err := machine.Fire(workflow.TriggerSubmit); err != nil {
		return nil, apperr.InvalidState("invoice %s cannot be submitted from status %s", inv.ID, inv.Status)
	}
	// Invoices advance straight into the chain's first stage; the
	// intermediate submitted state is never persisted.
	if machine.CanFire(workflow.TriggerAdvance) {
		if _, err := machine.Fire(workflow.TriggerAdvance); err != nil {
			return nil, apperr.InvalidState("invoice %s cannot enter the approval chain", inv.ID)
		}
	}

	inv.Status = string(machine.State())
	inv.SubmittedAt = &now

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionSubmit, actor, previous, inv.Status, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	if inv.DocumentType == entity.DocumentTypeDeliveryNote {
		e.emit(ctx, event.TypeInvoiceReceived, inv, previous)
	} else {
		e.emit(ctx, event.TypeInvoiceSubmitted, inv, previous)
	}

	e.logger.Info("Document submitted",
		zap.String("invoice_id", inv.ID),
		zap.String("status", inv.Status))

	return inv, nil
}

func (e *engineImpl) Approve(ctx context.Context, invoiceID string, actor entity.Actor, comment string, expectedVersion int64) (*entity.Invoice, error) {
	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	stage := workflow.State(inv.Status)
	if !stage.IsReview() {
		return nil, apperr.InvalidState("invoice %s is not under review (status: %s)", inv.ID, inv.Status)
	}
	if !authority.CanAct(actor, stage, authority.ActionApprove) {
		return nil, apperr.Permission("actor %s (position: %s) may not approve at stage %s", actor.ID, actor.Position, stage)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	next, err := machine.Fire(workflow.TriggerApprove)
	if err != nil {
		return nil, apperr.InvalidState("invoice %s cannot be approved from status %s", inv.ID, inv.Status)
	}
	inv.Status = string(next)

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionApprove, actor, previous, inv.Status, comment)
		return err
	})
	if err != nil {
		return nil, err
	}

	if next == workflow.StateApproved {
		e.emit(ctx, event.TypeInvoiceApproved, inv, previous)
	}

	e.logger.Info("Stage approved",
		zap.String("invoice_id", inv.ID),
		zap.String("stage", previous),
		zap.String("status", inv.Status),
		zap.String("actor_id", actor.ID))

	return inv, nil
}

func (e *engineImpl) Reject(ctx context.Context, invoiceID string, actor entity.Actor, reason string, expectedVersion int64) (*entity.Invoice, error) {
	if reason == "" {
		return nil, apperr.Validation("rejection reason is required")
	}

	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	stage := workflow.State(inv.Status)
	if !stage.IsReview() {
		return nil, apperr.InvalidState("invoice %s is not under review (status: %s)", inv.ID, inv.Status)
	}
	if !authority.CanAct(actor, stage, authority.ActionReject) {
		return nil, apperr.Permission("actor %s (position: %s) may not reject at stage %s", actor.ID, actor.Position, stage)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	next, err := machine.Fire(workflow.TriggerReject)
	if err != nil {
		return nil, apperr.InvalidState("invoice %s cannot be rejected from status %s", inv.ID, inv.Status)
	}
	inv.Status = string(next)
	inv.ReturnReason = reason

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionReject, actor, previous, inv.Status, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, event.TypeInvoiceRejected, inv, previous)

	e.logger.Info("Invoice rejected",
		zap.String("invoice_id", inv.ID),
		zap.String("stage", previous),
		zap.String("actor_id", actor.ID))

	return inv, nil
}

func (e *engineImpl) RequestCorrection(ctx context.Context, invoiceID string, actor entity.Actor, corrections []ledger.Input, note string, expectedVersion int64) (*entity.Invoice, error) {
	if note == "" {
		return nil, apperr.Validation("return note is required")
	}

	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	stage := workflow.State(inv.Status)
	if !stage.IsReview() {
		return nil, apperr.InvalidState("invoice %s is not under review (status: %s)", inv.ID, inv.Status)
	}
	if !authority.CanAct(actor, stage, authority.ActionRequestCorrection) {
		return nil, apperr.Permission("actor %s (position: %s) may not request corrections at stage %s", actor.ID, actor.Position, stage)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	target, err := machine.Fire(workflow.TriggerReturn)
	if err != nil {
		return nil, apperr.InvalidState("invoice %s cannot be returned from status %s", inv.ID, inv.Status)
	}

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// Batch is recorded against the review stage before the status
		// flips to returned.
		if _, err := e.ledger.RecordBatch(ctx, inv, actor, corrections); err != nil {
			return err
		}
		inv.Status = string(target)
		inv.ReturnReason = note
		inv.PartnerAcknowledgedAt = nil
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionReturn, actor, previous, inv.Status, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, event.TypeInvoiceReturned, inv, previous)

	e.logger.Info("Invoice returned for correction",
		zap.String("invoice_id", inv.ID),
		zap.String("stage", previous),
		zap.Int("corrections", len(corrections)),
		zap.String("actor_id", actor.ID))

	return inv, nil
}

func (e *engineImpl) AcknowledgeReturn(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error) {
	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	if !authority.CanAct(actor, workflow.State(inv.Status), authority.ActionAcknowledgeReturn) {
		return nil, apperr.Permission("actor %s may not acknowledge corrections", actor.ID)
	}
	if actor.CompanyID != inv.SubmittingCompanyID {
		return nil, apperr.Permission("actor %s does not belong to the submitting company", actor.ID)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	target, err := machine.Fire(workflow.TriggerAcknowledgeReturn)
	if err != nil {
		return nil, apperr.InvalidState("invoice %s has no outstanding return to acknowledge (status: %s)", inv.ID, inv.Status)
	}

	now := time.Now()
	inv.Status = string(target)
	inv.PartnerAcknowledgedAt = &now

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.ledger.Acknowledge(ctx, inv.ID); err != nil {
			return err
		}
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionAcknowledgeReturn, actor, previous, inv.Status, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, event.TypeInvoiceCorrectionAcknowledged, inv, previous)

	e.logger.Info("Return acknowledged, review resumed",
		zap.String("invoice_id", inv.ID),
		zap.String("status", inv.Status))

	return inv, nil
}

func (e *engineImpl) AddComment(ctx context.Context, invoiceID string, actor entity.Actor, comment string) error {
	if comment == "" {
		return apperr.Validation("comment text is required")
	}

	inv, err := e.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if actor.IsPartner() && actor.CompanyID != inv.SubmittingCompanyID {
		return apperr.Permission("actor %s does not belong to the submitting company", actor.ID)
	}
	if !authority.CanAct(actor, workflow.State(inv.Status), authority.ActionComment) {
		return apperr.Permission("actor %s may not comment", actor.ID)
	}

	// Comments never change the status, so no version check applies.
	_, err = e.trail.Record(ctx, inv.ID, entity.ActionComment, actor, inv.Status, inv.Status, comment)
	return err
}

func (e *engineImpl) MarkPaid(ctx context.Context, invoiceID string, actor entity.Actor, expectedVersion int64) (*entity.Invoice, error) {
	inv, err := e.loadForUpdate(ctx, invoiceID, expectedVersion)
	if err != nil {
		return nil, err
	}

	if !authority.CanAct(actor, workflow.State(inv.Status), authority.ActionMarkPaid) {
		return nil, apperr.Permission("actor %s (position: %s) may not mark invoices paid", actor.ID, actor.Position)
	}

	machine, err := e.machineFor(ctx, inv)
	if err != nil {
		return nil, err
	}

	previous := inv.Status
	next, err := machine.Fire(workflow.TriggerMarkPaid)
	if err != nil {
		return nil, apperr.InvalidState("invoice %s cannot be marked paid from status %s", inv.ID, inv.Status)
	}
	inv.Status = string(next)

	err = e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.invoices.ApplyTransition(ctx, inv, expectedVersion); err != nil {
			return err
		}
		_, err := e.trail.Record(ctx, inv.ID, entity.ActionMarkPaid, actor, previous, inv.Status, "")
		return err
	})
	if err != nil {
		return nil, err
	}

	e.emit(ctx, event.TypeInvoicePaid, inv, previous)

	e.logger.Info("Invoice marked paid",
		zap.String("invoice_id", inv.ID),
		zap.String("actor_id", actor.ID))

	return inv, nil
}

func (e *engineImpl) GetInvoice(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	return e.invoices.GetByID(ctx, invoiceID)
}

func (e *engineImpl) History(ctx context.Context, invoiceID string) ([]*entity.HistoryEntry, error) {
	return e.trail.History(ctx, invoiceID)
}

func (e *engineImpl) LatestCorrections(ctx context.Context, invoiceID string) ([]*entity.Correction, error) {
	return e.ledger.LatestBatch(ctx, invoiceID)
}
