// Package extractor reads statement sources from disk: plain XML exports and
// ZIP archives wrapping them. It yields the raw record container consumed by
// the parser, plus the resolved logical filename.
package extractor

import (
	"encoding/xml"
	"fmt"

	"github.com/merxbit/statement-ledger/internal/models"
)

// The statement export is a .NET DataSet serialization: a NewDataSet root
// holding repeated "Estado de Cuenta" rows (spaces encoded as _x0020_).
type dataSet struct {
	XMLName xml.Name    `xml:"NewDataSet"`
	Records []xmlRecord `xml:"Estado_x0020_de_x0020_Cuenta"`
}

type xmlRecord struct {
	Date             string `xml:"fecha"`
	ReferenceCurrent string `xml:"ref_corrie"`
	ReferenceOrigin  string `xml:"ref_origin"`
	Amount           string `xml:"importe"`
	TypeCode         string `xml:"tipo"`
	Narrative        string `xml:"observ"`
}

// ParseTree decodes the XML content into the flat record container. A
// missing or unrecognized root is a malformed document; an empty container
// is passed through and rejected downstream by the decoder.
func ParseTree(content []byte) ([]models.RawRecord, error) {
	var ds dataSet
	if err := xml.Unmarshal(content, &ds); err != nil {
		return nil, fmt.Errorf("%w: invalid XML, expected NewDataSet root: %v", models.ErrMalformedDocument, err)
	}

	records := make([]models.RawRecord, 0, len(ds.Records))
	for _, r := range ds.Records {
		records = append(records, models.RawRecord{
			Date:             r.Date,
			ReferenceCurrent: r.ReferenceCurrent,
			ReferenceOrigin:  r.ReferenceOrigin,
			Amount:           r.Amount,
			TypeCode:         r.TypeCode,
			Narrative:        r.Narrative,
		})
	}
	return records, nil
}
