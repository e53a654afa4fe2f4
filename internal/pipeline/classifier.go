// Package pipeline turns raw SMS messages into classified transactions:
// extraction, counterparty resolution, nature resolution, typing and
// category assignment, plus the batch ingestion and reclassification loops
// built on top.
package pipeline

import (
	"strings"

	"saikumar/sms-ledger/internal/counterparty"
	"saikumar/sms-ledger/internal/extractor"
	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/nature"
	"saikumar/sms-ledger/internal/patterns"
)

// Classifier runs the per-message classification. It keeps no state between
// messages and is safe for concurrent use.
type Classifier struct {
	patterns     *patterns.Store
	extractor    *extractor.Extractor
	counterparty *counterparty.Resolver
	nature       *nature.Resolver
	catalog      []models.Category
	logger       logging.Logger
}

// NewClassifier wires the stages over one pattern snapshot. An empty
// catalog uses models.DefaultCatalog.
func NewClassifier(store *patterns.Store, catalog []models.Category, logger logging.Logger, opts ...extractor.Option) *Classifier {
	if len(catalog) == 0 {
		catalog = models.DefaultCatalog()
	}
	return &Classifier{
		patterns:     store,
		extractor:    extractor.New(store, opts...),
		counterparty: counterparty.New(store),
		nature:       nature.New(store),
		catalog:      catalog,
		logger:       logging.OrDefault(logger).WithField(logging.FieldComponent, "classifier"),
	}
}

// Catalog returns the category catalog in use.
func (c *Classifier) Catalog() []models.Category {
	return c.catalog
}

// Classify processes one message without persisting it. Messages without an
// amount or direction, and pending messages, come back skipped. Duplicate
// detection belongs to the caller that owns the store.
func (c *Classifier) Classify(msg models.RawMessage) models.Outcome {
	body := msg.Body
	x := c.extractor.Extract(body)

	if !x.HasAmount {
		fields := []logging.Field{{Key: logging.FieldHash, Value: x.Hash.String()}}
		if x.AmountErr != nil {
			fields = append(fields, logging.Field{Key: logging.FieldReason, Value: x.AmountErr.Error()})
		}
		c.logger.Debug("Not a transaction: no amount", fields...)
		return models.Outcome{Result: models.ClassificationResult{Hash: x.Hash}, Skipped: models.SkipNoAmount}
	}
	if x.Direction == models.DirectionUnknown {
		c.logger.Debug("Not a transaction: no direction",
			logging.Field{Key: logging.FieldHash, Value: x.Hash.String()})
		return models.Outcome{Result: models.ClassificationResult{Hash: x.Hash, Amount: x.Amount}, Skipped: models.SkipNoDirection}
	}

	cp := c.counterparty.Extract(body)
	merchant := c.counterparty.Sanitize(x.Merchant, body, cp)
	res := c.nature.Resolve(body, x.IsDebit(), x.IsCredit())

	result := models.ClassificationResult{
		Hash:             x.Hash,
		Amount:           x.Amount,
		Direction:        x.Direction,
		Reversal:         x.Reversal,
		TimestampMillis:  msg.TimestampMillis,
		Sender:           strings.TrimSpace(msg.Sender),
		UPIID:            x.UPIID,
		Reference:        x.Reference,
		ReferenceKind:    x.ReferenceKind,
		BankCode:         x.BankCode,
		MerchantSource:   x.MerchantSource,
		Counterparty:     cp,
		Nature:           res,
		Snippet:          x.Snippet,
		SnippetTruncated: x.SnippetTruncated,
	}

	if merchant == "" {
		result.MerchantSource = ""
	}

	if res.Nature == models.NaturePending {
		result.Type = models.TypePending
		result.Merchant = merchant
		c.logger.Debug("Pending message not persisted",
			logging.Field{Key: logging.FieldHash, Value: x.Hash.String()},
			logging.Field{Key: logging.FieldReason, Value: res.Reasoning})
		return models.Outcome{Result: result, Skipped: models.SkipPending}
	}

	resolved := c.counterparty.Resolve(merchant, cp, x.UPIID)
	merchant = resolved.Merchant
	if resolved.Changed {
		result.MerchantSource = resolved.Source
	}
	if m, ok := c.counterparty.ReconcileAfterFallback(merchant, res.MatchedRule, cp); ok {
		merchant = m
		result.MerchantSource = counterparty.SourceCounterparty
	}
	result.Merchant = merchant
	if merchant == "" {
		result.MerchantSource = ""
	}

	result.Type = c.nature.TransactionType(res, body)
	result.Category = c.category(res, result.Type, body, merchant)
	result.RequiresConfirmation = res.RequiresUserConfirmation()

	c.audit(result)
	return models.Outcome{Result: result}
}

// category picks the category name for a resolution and maps it onto the
// catalog. Merchant patterns only apply to spending; structural natures get
// their fixed category.
func (c *Classifier) category(res models.NatureResolution, typ models.TransactionType, text, merchant string) models.Category {
	return c.lookup(CategoryName(c.patterns, res, typ, text, merchant))
}

// CategoryName returns the category name for a resolved message: user
// overlay, then default merchant map, then the nature default.
func CategoryName(store *patterns.Store, res models.NatureResolution, typ models.TransactionType, text, merchant string) string {
	switch res.Nature {
	case models.NatureCreditCardPayment:
		return models.CategoryCreditCardPayment
	case models.NatureSelfTransfer:
		return models.CategoryTransfer
	case models.NatureIncome:
		return incomeCategory(res.MatchedRule)
	}

	if name, ok := store.GetCategoryForMerchant(text); ok {
		return name
	}
	if merchant != "" {
		if name, ok := store.GetCategoryForMerchant(merchant); ok {
			return name
		}
	}
	if typ == models.TypeInvestmentOutflow {
		return models.CategoryInvestment
	}
	return models.CategoryUncategorized
}

func incomeCategory(rule models.RuleTag) string {
	switch rule {
	case models.RuleSalary:
		return models.CategorySalary
	case models.RuleCashback, models.RuleBonus:
		return models.CategoryCashback
	case models.RuleRefund:
		return models.CategoryRefund
	case models.RuleInterest:
		return models.CategoryInterest
	default:
		return models.CategoryOtherIncome
	}
}

// lookup resolves a category name against the catalog, falling back to
// Uncategorized and then to an id-less entry.
func (c *Classifier) lookup(name string) models.Category {
	if cat, ok := models.FindCategory(c.catalog, name); ok {
		return cat
	}
	c.logger.Warn("Category not in catalog",
		logging.Field{Key: logging.FieldCategory, Value: name})
	if cat, ok := models.FindCategory(c.catalog, models.CategoryUncategorized); ok {
		return cat
	}
	return models.Category{Name: name, Type: models.CategoryTypeExpense}
}

// audit logs corrected resolutions as audit events. They point at gaps in
// the pattern store.
func (c *Classifier) audit(r models.ClassificationResult) {
	fields := []logging.Field{
		{Key: logging.FieldHash, Value: r.Hash.String()},
		{Key: logging.FieldNature, Value: string(r.Nature.Nature)},
		{Key: logging.FieldRule, Value: string(r.Nature.MatchedRule)},
		{Key: logging.FieldConfidence, Value: r.Nature.Confidence},
		{Key: logging.FieldCategory, Value: r.Category.Name},
	}
	if len(r.Nature.InvariantViolations) > 0 {
		c.logger.Error("Nature invariant violated and corrected", append(fields,
			logging.Field{Key: logging.FieldAudit, Value: true},
			logging.Field{Key: logging.FieldViolations, Value: strings.Join(r.Nature.InvariantViolations, ",")},
			logging.Field{Key: logging.FieldReason, Value: r.Nature.Reasoning})...)
		return
	}
	c.logger.Debug("Classified message", fields...)
}
