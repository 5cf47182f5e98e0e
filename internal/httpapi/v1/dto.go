package v1

import (
    "time"

    "github.com/google/uuid"

    "github.com/tinoosan/bookkeeper/internal/ledger"
    "github.com/tinoosan/bookkeeper/internal/meta"
    "github.com/tinoosan/bookkeeper/internal/service/audit"
    "github.com/tinoosan/bookkeeper/internal/service/intake"
    "github.com/tinoosan/bookkeeper/internal/service/report"
)

// postEntryRequest is the manual form: a flat field map. Arabic or English keys.
type postEntryRequest struct {
    Fields meta.Metadata `json:"fields"`
}

type postLineRequest struct {
    Line string `json:"line"`
}

type previewRequest struct {
    Text string `json:"text"`
}

type commitRequest struct {
    Kind   string        `json:"kind"`
    Fields meta.Metadata `json:"fields"`
    // Edits are the user's corrections to the previewed fields; a blank value
    // clears a field.
    Edits meta.Metadata `json:"edits,omitempty"`
}

// recordResponse is the uniform wire shape of every ledger record. Fields not
// carried by a kind are omitted.
type recordResponse struct {
    ID               uuid.UUID     `json:"id"`
    Kind             ledger.Kind   `json:"kind"`
    Date             string        `json:"date,omitempty"`
    Party            string        `json:"party,omitempty"`
    Amount           string        `json:"amount,omitempty"`
    Currency         string        `json:"currency,omitempty"`
    Description      string        `json:"description,omitempty"`
    Status           ledger.Status `json:"status,omitempty"`
    Name             string        `json:"name,omitempty"`
    Quantity         *int64        `json:"quantity,omitempty"`
    UnitPrice        string        `json:"unit_price,omitempty"`
    ReorderThreshold *int64        `json:"reorder_threshold,omitempty"`
    Role             string        `json:"role,omitempty"`
    Phone            string        `json:"phone,omitempty"`
    Email            string        `json:"email,omitempty"`
    Address          string        `json:"address,omitempty"`
}

func toRecordResponse(rec ledger.Record) recordResponse {
    out := recordResponse{ID: rec.RecordID(), Kind: rec.Kind()}
    switch r := rec.(type) {
    case ledger.Sale:
        out.Date, out.Party, out.Amount, out.Currency, out.Description, out.Status = day(r.Date), r.Customer, r.Amount.String(), r.Currency, r.Description, r.Status
    case ledger.Purchase:
        out.Date, out.Party, out.Amount, out.Currency, out.Description, out.Status = day(r.Date), r.Supplier, r.Amount.String(), r.Currency, r.Description, r.Status
    case ledger.Expense:
        out.Date, out.Party, out.Amount, out.Currency, out.Description, out.Status = day(r.Date), r.Category, r.Amount.String(), r.Currency, r.Description, r.Status
    case ledger.InventoryItem:
        q, t := r.Quantity, r.ReorderThreshold
        out.Name, out.Quantity, out.UnitPrice, out.ReorderThreshold = r.Name, &q, r.UnitPrice.String(), &t
    case ledger.Party:
        out.Name, out.Role, out.Phone, out.Email, out.Address = r.Name, r.Role, r.Phone, r.Email, r.Address
    }
    return out
}

func toRecordList(recs []ledger.Record) []recordResponse {
    out := make([]recordResponse, 0, len(recs))
    for _, r := range recs { out = append(out, toRecordResponse(r)) }
    return out
}

func day(t time.Time) string {
    if t.IsZero() { return "" }
    return t.Format("2006-01-02")
}

type previewResponse struct {
    Kind          ledger.Kind   `json:"kind"`
    Date          string        `json:"date"`
    Party         string        `json:"party"`
    Amount        string        `json:"amount"`
    AmountFound   bool          `json:"amount_found"`
    Currency      string        `json:"currency"`
    Description   string        `json:"description"`
    DebitAccount  string        `json:"debit_account"`
    CreditAccount string        `json:"credit_account"`
    VAT           string        `json:"vat"`
    Status        ledger.Status `json:"status"`
    // Fields is the editable form to send back to /v1/transactions/commit.
    Fields meta.Metadata `json:"fields"`
}

func toPreviewResponse(c intake.ClassifiedTransaction) previewResponse {
    return previewResponse{
        Kind:          c.Kind,
        Date:          day(c.Date),
        Party:         c.Party,
        Amount:        c.Amount.String(),
        AmountFound:   c.AmountFound,
        Currency:      c.Currency,
        Description:   c.Description,
        DebitAccount:  c.DebitAccount,
        CreditAccount: c.CreditAccount,
        VAT:           c.VAT.String(),
        Status:        c.Status,
        Fields:        c.Fields(),
    }
}

type tableResponse struct {
    Kind    ledger.Kind      `json:"kind"`
    Records []recordResponse `json:"records"`
}

type tablesResponse struct {
    Tables []tableResponse `json:"tables"`
}

type auditResponse struct {
    Findings []audit.Finding `json:"findings"`
}

type summaryResponse struct {
    Counts         map[ledger.Kind]int               `json:"counts"`
    Totals         map[ledger.Kind]map[string]string `json:"totals"`
    Net            map[string]string                 `json:"net"`
    Pending        int                               `json:"pending"`
    Complete       int                               `json:"complete"`
    Unpriced       int                               `json:"unpriced"`
    Overflowed     int                               `json:"overflowed"`
    InventoryValue string                            `json:"inventory_value"`
    InventoryCurr  string                            `json:"inventory_currency"`
    Reorder        []string                          `json:"reorder"`
}

func toSummaryResponse(s report.Summary) summaryResponse {
    out := summaryResponse{
        Counts:         s.Counts,
        Totals:         make(map[ledger.Kind]map[string]string, len(s.Totals)),
        Net:            make(map[string]string, len(s.Net)),
        Pending:        s.Pending,
        Complete:       s.Complete,
        Unpriced:       s.Unpriced,
        Overflowed:     s.Overflowed,
        InventoryValue: s.InventoryValue.Decimal().String(),
        InventoryCurr:  s.InventoryValue.Curr().Code(),
        Reorder:        s.Reorder,
    }
    for k, byCur := range s.Totals {
        m := make(map[string]string, len(byCur))
        for c, a := range byCur { m[c] = a.Decimal().String() }
        out.Totals[k] = m
    }
    for c, a := range s.Net { out.Net[c] = a.Decimal().String() }
    if out.Reorder == nil { out.Reorder = []string{} }
    return out
}

type saveResponse struct {
    Saved   int       `json:"saved"`
    SavedAt time.Time `json:"saved_at"`
}
