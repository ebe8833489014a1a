// Package ofx imports OFX/QFX bank and credit card statements as ledger
// transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"
)

// ImportTag is attached to every imported transaction.
const ImportTag = "ofx"

// idNamespace scopes the deterministic ids given to imported rows, so a
// statement imported twice yields the same ids.
var idNamespace = uuid.MustParse("6f1a7c3e-2b1d-5e8a-9c40-1d2e3f4a5b6c")

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts OFX statements into transactions booked against one
// ledger account.
type Parser struct {
	accountID string
}

// NewParser creates a parser that books every row to accountID.
func NewParser(accountID string) *Parser {
	return &Parser{accountID: accountID}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare tag line.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func parseResponse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its transactions in
// statement order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.accountID) == "" {
		return nil, fmt.Errorf("ofx import needs a ledger account")
	}

	resp, err := parseResponse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			transactions = append(transactions,
				p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts,
		"account", p.accountID)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, statementAccount string) []model.Transaction {
	if list == nil {
		return nil
	}

	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		transactions = append(transactions, p.convertTransaction(ofxTx, statementAccount))
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model. OFX signs
// debits negative, which matches the ledger's expense convention.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, statementAccount string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	trnType := ofxTx.TrnType.String()

	tx := model.Transaction{
		ID:            transactionID(statementAccount, ofxTx),
		Amount:        amount,
		Date:          ofxTx.DtPosted.Time.UTC(),
		FromAccountID: p.accountID,
		Description:   extractMerchantName(ofxTx),
		Category:      categoryFor(trnType),
		Tags:          []string{ImportTag},
	}

	if ofxTx.CheckNum != "" {
		tx.Tags = append(tx.Tags, "check-"+string(ofxTx.CheckNum))
	}

	return tx
}

// transactionID derives a stable id from the statement account and FITID,
// falling back to the posted date, amount and name when FITID is missing.
func transactionID(statementAccount string, ofxTx ofxgo.Transaction) string {
	key := statementAccount + "/" + string(ofxTx.FiTID)
	if ofxTx.FiTID == "" {
		key = fmt.Sprintf("%s/%s/%s/%s",
			statementAccount,
			ofxTx.DtPosted.Time.UTC().Format("20060102"),
			ofxTx.TrnAmt.String(),
			ofxTx.Name)
	}
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func categoryFor(trnType string) string {
	switch trnType {
	case "INT", "DIV":
		return "Interest"
	case "FEE", "SRVCHG":
		return "Bank Fees"
	case "ATM":
		return "Cash & ATM"
	default:
		return ""
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// MEMO sometimes carries the merchant when NAME is generic.
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}

// StatementAccounts lists the distinct bank account numbers in an OFX file.
func StatementAccounts(reader io.Reader) ([]string, error) {
	resp, err := parseResponse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)

	return accounts, nil
}
