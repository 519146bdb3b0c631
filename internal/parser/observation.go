package parser

import (
	"regexp"
	"strings"

	"github.com/merxbit/statement-ledger/internal/config"
	"github.com/merxbit/statement-ledger/internal/models"
)

// Narrative extraction patterns. Each rule is independent and best-effort:
// a miss leaves the target field empty, never an error.
var (
	// "ORDENANTE NOMBRE:JUAN PEREZ|..." — name runs to the pipe delimiter.
	payerNamePattern = regexp.MustCompile(`(?i)ORDENANTE NOMBRE:([^|]+)`)
	// Secondary payer form: "ORDENADA POR: JUAN PEREZ PAN: 1234XXXX5678".
	payerNameAltPattern = regexp.MustCompile(`(?i)ORDENADA POR:\s*([^P]+?)(?:PAN:|$)`)
	// National ID: "CI:1234567"
	nationalIDPattern = regexp.MustCompile(`(?i)CI:(\d+)`)
	// Masked card: "PAN: 1234XXXXXX5678", "Tarjeta#: ...", "PANRED: ..."
	maskedCardPattern = regexp.MustCompile(`(?i)(?:PAN|Tarjeta)(?:#|RED)?:\s*(\d+X+\d+)`)
	// Origin account inside a quoted attribute: NUM_CUENTA="10023456"
	originAccountPattern = regexp.MustCompile(`NUM_CUENTA="(\d+)"`)
	// Beneficiary account: "BENEFICIARIO: 10098765"
	beneficiaryPattern = regexp.MustCompile(`(?i)BENEFICIARIO:\s*(\d+)`)
	// Structured pay-detail tag: "<DET_PAGO>pago alquiler</DET_PAGO>"
	payDetailPattern = regexp.MustCompile(`(?i)DET_PAGO>([^<]+)<`)
)

// fieldRule binds an ordered set of patterns to one transaction field.
// Patterns are tried in order; the first capture wins.
type fieldRule struct {
	name     string
	patterns []*regexp.Regexp
	assign   func(*models.ParsedTransaction, string)
}

// observationRules is kept outside the extraction function so each rule can
// be exercised on its own in tests.
var observationRules = []fieldRule{
	{
		name:     "payer_name",
		patterns: []*regexp.Regexp{payerNamePattern, payerNameAltPattern},
		assign:   func(t *models.ParsedTransaction, v string) { t.PayerName = v },
	},
	{
		name:     "national_id",
		patterns: []*regexp.Regexp{nationalIDPattern},
		assign:   func(t *models.ParsedTransaction, v string) { t.PayerNationalID = v },
	},
	{
		name:     "masked_card",
		patterns: []*regexp.Regexp{maskedCardPattern},
		assign:   func(t *models.ParsedTransaction, v string) { t.MaskedCard = v },
	},
	{
		name:     "origin_account",
		patterns: []*regexp.Regexp{originAccountPattern},
		assign:   func(t *models.ParsedTransaction, v string) { t.OriginAccount = v },
	},
	{
		name:     "beneficiary_account",
		patterns: []*regexp.Regexp{beneficiaryPattern},
		assign:   func(t *models.ParsedTransaction, v string) { t.BeneficiaryAccount = v },
	},
}

// ObservationExtractor mines structured fields out of the free-text
// observation narrative of a transaction record.
type ObservationExtractor struct {
	channels      []config.ChannelRule
	conceptMaxLen int
}

// NewObservationExtractor builds an extractor from the configured channel
// marker rules and concept length limit.
func NewObservationExtractor(opts config.Options) *ObservationExtractor {
	return &ObservationExtractor{
		channels:      opts.ChannelRules,
		conceptMaxLen: opts.ConceptMaxLen,
	}
}

// Extract fills the extracted fields of txn from the decoded narrative.
// Extraction never fails; unmatched fields stay empty.
func (e *ObservationExtractor) Extract(narrative string, txn *models.ParsedTransaction) {
	for _, rule := range observationRules {
		for _, p := range rule.patterns {
			if m := p.FindStringSubmatch(narrative); m != nil {
				rule.assign(txn, strings.TrimSpace(m[1]))
				break
			}
		}
	}

	txn.Channel = e.classifyChannel(narrative)
	txn.Concept = e.extractConcept(narrative)
}

// classifyChannel tests the narrative against the ordered marker list;
// the first marker hit decides the channel, default empty.
func (e *ObservationExtractor) classifyChannel(narrative string) string {
	for _, rule := range e.channels {
		if containsAny(narrative, rule.Markers) {
			return rule.Channel
		}
	}
	return ""
}

// extractConcept prefers the structured pay-detail tag; otherwise it falls
// back to the first narrative line, truncated.
func (e *ObservationExtractor) extractConcept(narrative string) string {
	if m := payDetailPattern.FindStringSubmatch(narrative); m != nil {
		return truncateRunes(strings.TrimSpace(m[1]), e.conceptMaxLen)
	}
	return truncateRunes(firstLine(narrative), e.conceptMaxLen)
}
