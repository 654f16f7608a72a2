// Command analysis measures the behavior of wirebloom filters and inspects
// filter bytes received from elsewhere.
//
// Measure the empirical false positive rate of a sized filter:
//
//	analysis -items 100000 -fp 0.01
//	analysis -k 7 -bits 958506 -items 100000 -probes 1000000
//
// Inspect hex-encoded filter bytes and query keys against them:
//
//	analysis -k 2 -bits 64 -data 0000200020400000 -query alpha,gamma
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jcalabro/wirebloom"
	"k8s.io/klog/v2"
)

type config struct {
	k      uint
	bits   uint
	items  uint64
	fpRate float64
	probes uint64
	data   string
	query  string
	dump   bool
}

func main() {
	var cfg config
	flag.UintVar(&cfg.k, "k", 0, "number of hash functions (with -bits, overrides -fp sizing)")
	flag.UintVar(&cfg.bits, "bits", 0, "number of bits in the filter")
	flag.Uint64Var(&cfg.items, "items", 100_000, "number of synthetic keys to insert")
	flag.Float64Var(&cfg.fpRate, "fp", 0.01, "target false positive rate used for sizing")
	flag.Uint64Var(&cfg.probes, "probes", 100_000, "number of absent keys to probe")
	flag.StringVar(&cfg.data, "data", "", "hex-encoded filter bytes to inspect instead of building one")
	flag.StringVar(&cfg.query, "query", "", "comma separated keys to test")
	flag.BoolVar(&cfg.dump, "dump", false, "print the filter bytes as hex")
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if err := run(os.Stdout, cfg); err != nil {
		klog.ErrorS(err, "Analysis failed")
		klog.Flush()
		os.Exit(1)
	}
}

func run(w io.Writer, cfg config) error {
	params, err := cfg.params()
	if err != nil {
		return err
	}

	var f *wirebloom.Filter
	if cfg.data != "" {
		f, err = load(params, cfg.data)
		if err != nil {
			return err
		}
	} else {
		f, err = wirebloom.New(params.NumHashFunctions, params.NumBits)
		if err != nil {
			return err
		}
		measure(w, f, cfg.items, cfg.probes)
	}

	if cfg.query != "" {
		for _, key := range strings.Split(cfg.query, ",") {
			fmt.Fprintf(w, "%s\t%v\n", key, f.Contains(key))
		}
	}

	report(w, f)
	if cfg.dump {
		fmt.Fprintln(w, hex.EncodeToString(f.Bytes()))
	}
	return nil
}

func (c config) params() (wirebloom.Params, error) {
	if c.k > 0 || c.bits > 0 {
		if uint64(c.k) > uint64(^uint32(0)) || uint64(c.bits) > uint64(^uint32(0)) {
			return wirebloom.Params{}, errors.New("-k and -bits must fit in 32 bits")
		}
		p := wirebloom.Params{NumHashFunctions: uint32(c.k), NumBits: uint32(c.bits)}
		return p, p.Validate()
	}
	if c.data != "" {
		return wirebloom.Params{}, errors.New("-data requires -k and -bits")
	}
	return wirebloom.OptimalParams(c.items, c.fpRate), nil
}

func load(p wirebloom.Params, data string) (*wirebloom.Filter, error) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding -data: %w", err)
	}
	klog.V(1).InfoS("Loading filter", "params", p, "bytes", len(raw))
	return wirebloom.FromBytes(p.NumHashFunctions, p.NumBits, raw)
}

// measure inserts items synthetic keys and probes keys that were never added.
func measure(w io.Writer, f *wirebloom.Filter, items, probes uint64) {
	klog.InfoS("Building filter", "params", f.Params(), "items", items, "probes", probes)

	for i := range items {
		f.Add(fmt.Sprintf("item-%d", i))
	}

	var falsePositives uint64
	for i := range probes {
		if f.Contains(fmt.Sprintf("probe-%d", i)) {
			falsePositives++
		}
	}

	actual := 0.0
	if probes > 0 {
		actual = float64(falsePositives) / float64(probes)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "inserted\t%d\n", items)
	fmt.Fprintf(tw, "false positives\t%d/%d\n", falsePositives, probes)
	fmt.Fprintf(tw, "measured fp rate\t%.6f\n", actual)
	fmt.Fprintf(tw, "predicted fp rate\t%.6f\n", wirebloom.EstimateFalsePositiveRate(f.Params(), items))
	tw.Flush()
}

func report(w io.Writer, f *wirebloom.Filter) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "params\t%v\n", f.Params())
	fmt.Fprintf(tw, "bytes\t%d\n", len(f.Bytes()))
	fmt.Fprintf(tw, "fill ratio\t%.4f\n", f.FillRatio())
	fmt.Fprintf(tw, "estimated items\t%.0f\n", f.EstimatedCount())
	fmt.Fprintf(tw, "estimated fp rate\t%.6f\n", f.EstimatedFalsePositiveRate())
	tw.Flush()
}
