package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/spice-ledger/internal/testutil"
	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedError bool
	}{
		{name: "valid bank statement", ofxData: sampleBankOFX, expectedCount: 3},
		{name: "valid credit card statement", ofxData: sampleCreditCardOFX, expectedCount: 2},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions, err := NewParser("a1").ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, transactions, tt.expectedCount)
		})
	}
}

func TestParseFile_RequiresAccount(t *testing.T) {
	_, err := NewParser(" ").ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	assert.Error(t, err)
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser("a1").ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseBankTransactions(t *testing.T) {
	transactions, err := NewParser("checking").ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	tx1 := transactions[0]
	assert.NotEmpty(t, tx1.ID)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.Description)
	assert.Equal(t, -25.50, tx1.Amount)
	assert.True(t, tx1.IsExpense())
	assert.Equal(t, "checking", tx1.FromAccountID)
	assert.Empty(t, tx1.ToAccountID)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), tx1.Date)
	assert.Equal(t, []string{ImportTag}, tx1.Tags)

	tx2 := transactions[1]
	assert.Equal(t, "Whole Foods Market", tx2.Description)
	assert.Equal(t, -125.00, tx2.Amount)

	tx3 := transactions[2]
	assert.Equal(t, "CHECK #1234", tx3.Description)
	assert.Equal(t, -500.00, tx3.Amount)
	assert.Equal(t, []string{ImportTag, "check-1234"}, tx3.Tags)
}

func TestParseCreditCardTransactions(t *testing.T) {
	transactions, err := NewParser("visa").ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", transactions[0].Description)
	assert.Equal(t, -45.99, transactions[0].Amount)
	assert.Equal(t, "visa", transactions[0].FromAccountID)

	assert.Equal(t, "NETFLIX.COM", transactions[1].Description)
	assert.Equal(t, -15.00, transactions[1].Amount)
}

func TestParseFile_StableIDs(t *testing.T) {
	ctx := context.Background()

	first, err := NewParser("a1").ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	second, err := NewParser("a1").ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	assert.Equal(t, testutil.IDs(first), testutil.IDs(second))

	seen := map[string]bool{}
	for _, id := range testutil.IDs(first) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestParseFile_ReimportSkipsExisting(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	transactions, err := NewParser("a1").ParseFile(ctx, strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	inserted, err := db.Storage.SaveTransactions(ctx, transactions)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = db.Storage.SaveTransactions(ctx, transactions)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	stored, err := db.Storage.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, transactions, stored)
}

func TestTransactionID_WithoutFITID(t *testing.T) {
	tx := ofxgo.Transaction{
		Name:     ofxgo.String("COFFEE"),
		DtPosted: ofxgo.Date{Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	tx.TrnAmt.SetFloat64(-3.5)

	id := transactionID("123", tx)
	assert.Equal(t, id, transactionID("123", tx))
	assert.NotEqual(t, id, transactionID("456", tx))
}

func TestCategoryFor(t *testing.T) {
	assert.Equal(t, "Interest", categoryFor("INT"))
	assert.Equal(t, "Bank Fees", categoryFor("FEE"))
	assert.Equal(t, "Cash & ATM", categoryFor("ATM"))
	assert.Empty(t, categoryFor("DEBIT"))
}

func TestExtractMerchantName(t *testing.T) {
	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{name: "remove POS prefix", tx: ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"}, expected: "STARBUCKS"},
		{name: "remove DEBIT CARD prefix", tx: ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"}, expected: "WHOLE FOODS"},
		{name: "keep clean name", tx: ofxgo.Transaction{Name: "NETFLIX.COM"}, expected: "NETFLIX.COM"},
		{name: "trim whitespace", tx: ofxgo.Transaction{Name: "  AMAZON.COM  "}, expected: "AMAZON.COM"},
		{name: "strip leading date", tx: ofxgo.Transaction{Name: "01/15 TARGET"}, expected: "TARGET"},
		{name: "generic name uses memo", tx: ofxgo.Transaction{Name: "DEBIT", Memo: "CORNER BAKERY"}, expected: "CORNER BAKERY"},
		{name: "payee wins", tx: ofxgo.Transaction{Name: "POS 123", Payee: &ofxgo.Payee{Name: "Local Grocer"}}, expected: "Local Grocer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractMerchantName(tt.tx))
		})
	}
}

func TestStatementAccounts(t *testing.T) {
	accounts, err := StatementAccounts(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = StatementAccounts(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)

	_, err = StatementAccounts(strings.NewReader("garbage"))
	assert.Error(t, err)
}
