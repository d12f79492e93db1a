package cost

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// Column names are fixed; downstream spreadsheets key on them. The two
// *Fee columns carry rates (NOK/kWh), the *Cost columns carry amounts.
var csvHeader = []string{
	"SessionId",
	"Timestamp",
	"Energy",
	"EnergyUsageFee",
	"NetUsageFee",
	"EnergyCost",
	"NetUsageCost",
	"TotalCostNoVat",
	"TotalCostWithVAT",
	"CostCurrency",
}

// WriteCSV renders records to w as they are pulled from the stream, so
// output starts before the full range has been priced. Returns the number
// of rows written and the stream's terminal error, if any.
func WriteCSV(w io.Writer, stream *Stream) (int, error) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	n := 0
	for stream.Next() {
		if err := cw.Write(csvRow(stream.Record())); err != nil {
			return n, err
		}
		n++
		// Flush per row: consumers tailing the output see records as soon
		// as they are computed.
		cw.Flush()
	}
	if err := stream.Err(); err != nil {
		return n, err
	}
	return n, cw.Error()
}

// WriteRecordsCSV renders an already-collected record slice.
func WriteRecordsCSV(w io.Writer, records []model.CostRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(csvRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r model.CostRecord) []string {
	return []string{
		r.SessionID,
		r.Timestamp.Format(time.RFC3339),
		fmtFloat(r.EnergyKWh),
		fmtFloat(r.EnergyUnitPrice),
		fmtFloat(r.NetFeeRate),
		fmtFloat(r.EnergyCost),
		fmtFloat(r.NetUsageFee),
		fmtFloat(r.TotalExclVAT),
		fmtFloat(r.TotalInclVAT),
		r.Currency,
	}
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
