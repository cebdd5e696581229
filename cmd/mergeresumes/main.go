package main

// Merge resume JSON files offline:
//   go run ./cmd/mergeresumes --policy content base.json tailored.json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"resume-builder/resume/merge"
	"resume-builder/resume/model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("mergeresumes", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	policyName := flags.StringP("policy", "p", "content", "work experience key policy: content or lineage")
	output := flags.StringP("output", "o", "", "write the result to this file instead of stdout")
	compact := flags.Bool("compact", false, "print compact JSON")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: mergeresumes [flags] resume.json [resume.json ...]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	policy, err := merge.ParsePolicy(*policyName)
	if err != nil {
		fmt.Fprintf(stderr, "mergeresumes: %v\n", err)
		return 2
	}

	var resumes []model.Resume
	for _, path := range flags.Args() {
		loaded, err := readResumes(path)
		if err != nil {
			fmt.Fprintf(stderr, "mergeresumes: %s: %v\n", path, err)
			return 1
		}
		resumes = append(resumes, loaded...)
	}

	result, err := merge.Merge(resumes, merge.WithPolicy(policy))
	if err != nil {
		fmt.Fprintf(stderr, "mergeresumes: %v\n", err)
		return 1
	}

	var out []byte
	if *compact {
		out, err = json.Marshal(result)
	} else {
		out, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(stderr, "mergeresumes: encode result: %v\n", err)
		return 1
	}
	out = append(out, '\n')

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			fmt.Fprintf(stderr, "mergeresumes: %v\n", err)
			return 1
		}
		return 0
	}
	if _, err := stdout.Write(out); err != nil {
		return 1
	}
	return 0
}

// readResumes accepts a single resume object or an array of them.
func readResumes(path string) ([]model.Resume, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []model.Resume
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode resumes: %w", err)
		}
		return withFileIDs(path, list), nil
	}
	var one model.Resume
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}
	return withFileIDs(path, []model.Resume{one}), nil
}

// withFileIDs names resumes without an id after their file ("path", or "path#N" inside an
// array) so their provenance stays separate.
func withFileIDs(path string, list []model.Resume) []model.Resume {
	for i := range list {
		if strings.TrimSpace(list[i].ID) != "" {
			continue
		}
		list[i].ID = path
		if len(list) > 1 {
			list[i].ID = fmt.Sprintf("%s#%d", path, i+1)
		}
	}
	return list
}
