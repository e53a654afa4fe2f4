package pipeline

import (
	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

// Reclassify re-runs extraction and resolution over stored snippets and
// returns one update per record that changed. Truncated snippets are never
// sanitized, a snippet whose direction cannot be read keeps its stored
// nature, and linked self-transfers keep their type and nature. categories
// replaces the classifier catalog when non-empty.
func (c *Classifier) Reclassify(existing []models.Transaction, categories []models.Category) []models.TransactionUpdate {
	catalog := c.catalog
	if len(categories) > 0 {
		catalog = categories
	}
	rc := *c
	rc.catalog = catalog

	var updates []models.TransactionUpdate
	for _, txn := range existing {
		upd := rc.reclassifyOne(txn)
		if upd.IsEmpty() {
			continue
		}
		updates = append(updates, upd)
	}
	c.logger.Info("Reclassification finished",
		logging.Field{Key: logging.FieldCount, Value: len(existing)},
		logging.Field{Key: "updated", Value: len(updates)})
	return updates
}

func (c *Classifier) reclassifyOne(txn models.Transaction) models.TransactionUpdate {
	text := txn.Snippet
	x := c.extractor.Extract(text)
	cp := c.counterparty.Extract(text)

	res := models.NatureResolution{
		Nature:      txn.Nature,
		MatchedRule: txn.MatchedRule,
		Confidence:  txn.Confidence,
	}
	typ := txn.Type
	if txn.LinkedID == "" && x.Direction != models.DirectionUnknown {
		fresh := c.nature.Resolve(text, x.IsDebit(), x.IsCredit())
		if fresh.Nature != models.NaturePending {
			res = fresh
			typ = c.nature.TransactionType(fresh, text)
		}
	}

	merchant := txn.Merchant
	if merchant == "" {
		merchant = x.Merchant
	}
	if !txn.SnippetTruncated {
		merchant = c.counterparty.Sanitize(merchant, text, cp)
	}
	upiID := txn.UPIID
	if upiID == "" {
		upiID = x.UPIID
	}
	merchant = c.counterparty.Resolve(merchant, cp, upiID).Merchant
	if m, ok := c.counterparty.ReconcileAfterFallback(merchant, res.MatchedRule, cp); ok {
		merchant = m
	}

	upd := models.TransactionUpdate{ID: txn.ID}
	if merchant != txn.Merchant {
		upd.Merchant = &merchant
	}
	if txn.LinkedID != "" {
		return upd
	}

	resolutionChanged := res.Nature != txn.Nature || res.MatchedRule != txn.MatchedRule
	if res.Nature != txn.Nature {
		upd.Nature = &res.Nature
	}
	if res.MatchedRule != txn.MatchedRule {
		upd.MatchedRule = &res.MatchedRule
	}
	if typ != txn.Type {
		upd.Type = &typ
	}
	if res.Confidence != txn.Confidence {
		upd.Confidence = &res.Confidence
	}
	// A user-confirmed record keeps its flag and category until the
	// resolution itself changes.
	if resolutionChanged {
		confirm := res.RequiresUserConfirmation()
		if confirm != txn.RequiresConfirmation {
			upd.RequiresConfirmation = &confirm
		}
	}
	if resolutionChanged || upd.Merchant != nil || txn.CategoryName == "" ||
		txn.CategoryName == models.CategoryUncategorized {
		cat := c.lookup(CategoryName(c.patterns, res, typ, text, merchant))
		if cat.ID != txn.CategoryID || cat.Name != txn.CategoryName {
			upd.Category = &cat
		}
	}
	return upd
}
