package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file|dir>...",
		Short: "Check that storage set files parse",
		Long: `Verify parses every given file, and every file under the given directories
(temporary files left by interrupted saves are skipped). It fails if any file
is corrupt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			checked, failed := 0, 0
			for _, arg := range args {
				files, err := collectFiles(arg)
				if err != nil {
					return err
				}
				for _, path := range files {
					checked++
					if err := verifyFile(path); err != nil {
						failed++
						fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					}
				}
			}
			fmt.Fprintf(out, "%d files checked, %d failed\n", checked, failed)
			if failed > 0 {
				return errors.Errorf("%d corrupt files", failed)
			}
			return nil
		},
	}
}

func collectFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.Contains(d.Name(), ".tmp") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

func verifyFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	set, err := storageset.Decode(f)
	if err != nil {
		return err
	}
	set.Close()
	return nil
}
