package errorProfile

import (
	"embed"
	"errors"
	"fmt"
	"strconv"

	"github.com/liserjrqlxue/goUtil/osUtil"
	"github.com/liserjrqlxue/goUtil/simpleUtil"
)

// embed etc
//
//go:embed etc/*.txt
var EtcFS embed.FS

const paramsPath = "etc/params.txt"

type Params struct {
	K        uint
	HashSize uint64
	NTables  int

	// Coverage is the median k-mer abundance at which a read stops training the hash
	Coverage int
	// Cutoff is the highest abundance of an untrusted k-mer
	Cutoff int

	MaxSeqLen  int
	MaxReads   int
	CheckExit  int
	MaxChecked int
}

func DefaultParams() Params {
	return Params{
		K:          20,
		HashSize:   1e7,
		NTables:    4,
		Coverage:   10,
		Cutoff:     3,
		MaxSeqLen:  65535,
		MaxReads:   1e8,
		CheckExit:  25000,
		MaxChecked: 2e5,
	}
}

// LoadParams reads etc/params.txt from cfgPath, falling back to the embedded copy.
func LoadParams(cfgPath string, cfgFS embed.FS) (Params, error) {
	var (
		params  = DefaultParams()
		file    = osUtil.OpenFS(paramsPath, cfgPath, cfgFS)
		rows, _ = osUtil.FS2MapArray(file, "\t", nil)
	)
	defer simpleUtil.DeferClose(file)
	for _, row := range rows {
		if err := params.Set(row["Name"], row["Value"]); err != nil {
			return params, fmt.Errorf("%s: %w", paramsPath, err)
		}
	}
	return params, params.Validate()
}

// Set assigns one named parameter; values may use exponent notation.
func (params *Params) Set(name, value string) error {
	var v, err = strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	switch name {
	case "K":
		params.K = uint(v)
	case "HashSize":
		params.HashSize = uint64(v)
	case "NTables":
		params.NTables = int(v)
	case "Coverage":
		params.Coverage = int(v)
	case "Cutoff":
		params.Cutoff = int(v)
	case "MaxSeqLen":
		params.MaxSeqLen = int(v)
	case "MaxReads":
		params.MaxReads = int(v)
	case "CheckExit":
		params.CheckExit = int(v)
	case "MaxChecked":
		params.MaxChecked = int(v)
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

func (params Params) Validate() error {
	var errs []error
	if params.K == 0 {
		errs = append(errs, errors.New("K must be positive"))
	}
	if params.NTables < 1 {
		errs = append(errs, errors.New("NTables must be positive"))
	}
	if params.MaxSeqLen < 1 {
		errs = append(errs, errors.New("MaxSeqLen must be positive"))
	}
	if params.MaxReads < 1 {
		errs = append(errs, errors.New("MaxReads must be positive"))
	}
	if params.CheckExit < 1 {
		errs = append(errs, errors.New("CheckExit must be positive"))
	}
	return errors.Join(errs...)
}
