package model

// EmployeeBand buckets an organisation's headcount. The backing integers
// are the upper bound of each range so that bands compare numerically
// (251 stands in for "more than 250").
type EmployeeBand int

const (
	EmployeesUpTo10  EmployeeBand = 10
	EmployeesUpTo50  EmployeeBand = 50
	EmployeesUpTo100 EmployeeBand = 100
	EmployeesUpTo250 EmployeeBand = 250
	EmployeesOver250 EmployeeBand = 251
)

var employeeBandByOriginal = map[string]EmployeeBand{
	"1-10":    EmployeesUpTo10,
	"11-50":   EmployeesUpTo50,
	"51-100":  EmployeesUpTo100,
	"101-250": EmployeesUpTo250,
	">250":    EmployeesOver250,
}

// EmployeeBandFromOriginal maps a spreadsheet value like "11-50" to its
// band. ok is false for unrecognized input; callers log and treat the value
// as absent rather than failing the row.
func EmployeeBandFromOriginal(input string) (EmployeeBand, bool) {
	band, ok := employeeBandByOriginal[input]
	return band, ok
}

// Original returns the spreadsheet representation of the band.
func (b EmployeeBand) Original() string {
	switch b {
	case EmployeesUpTo10:
		return "1-10"
	case EmployeesUpTo50:
		return "11-50"
	case EmployeesUpTo100:
		return "51-100"
	case EmployeesUpTo250:
		return "101-250"
	case EmployeesOver250:
		return ">250"
	}
	return ""
}

// Bounds returns the numeric headcount range of the band. upper is nil for
// the open-ended top band.
func (b EmployeeBand) Bounds() (lower int, upper *int) {
	switch b {
	case EmployeesUpTo10:
		return 1, intPtr(10)
	case EmployeesUpTo50:
		return 11, intPtr(50)
	case EmployeesUpTo100:
		return 51, intPtr(100)
	case EmployeesUpTo250:
		return 101, intPtr(250)
	case EmployeesOver250:
		return 251, nil
	}
	return 0, nil
}

// TurnoverBand buckets an organisation's annual turnover in million euros.
type TurnoverBand int

const (
	TurnoverUpTo1M TurnoverBand = 1
	TurnoverUpTo3M TurnoverBand = 3
	TurnoverUpTo5M TurnoverBand = 5
	TurnoverOver5M TurnoverBand = 6
)

var turnoverBandByOriginal = map[string]TurnoverBand{
	"0-1 million euros": TurnoverUpTo1M,
	"1-3 million euros": TurnoverUpTo3M,
	"3-5 million euros": TurnoverUpTo5M,
	">5 million euros":  TurnoverOver5M,
}

// TurnoverBandFromOriginal maps a spreadsheet value to its band. ok is false
// for unrecognized input.
func TurnoverBandFromOriginal(input string) (TurnoverBand, bool) {
	band, ok := turnoverBandByOriginal[input]
	return band, ok
}

// Original returns the spreadsheet representation of the band.
func (b TurnoverBand) Original() string {
	switch b {
	case TurnoverUpTo1M:
		return "0-1 million euros"
	case TurnoverUpTo3M:
		return "1-3 million euros"
	case TurnoverUpTo5M:
		return "3-5 million euros"
	case TurnoverOver5M:
		return ">5 million euros"
	}
	return ""
}

// Bounds returns the turnover range in million euros. upper is nil for the
// open-ended top band.
func (b TurnoverBand) Bounds() (lower float64, upper *float64) {
	switch b {
	case TurnoverUpTo1M:
		return 0, floatPtr(1)
	case TurnoverUpTo3M:
		return 1, floatPtr(3)
	case TurnoverUpTo5M:
		return 3, floatPtr(5)
	case TurnoverOver5M:
		return 5, nil
	}
	return 0, nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
