package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/classbook/apps/shared"
	"github.com/trezcool/classbook/core/report"
)

var (
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out     io.Writer
	backend *shared.Backend
	openDB  func() (*sqlx.DB, error)
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS]                         - run a goose migration command (up, down, status, ...)")
	fmt.Println("  seed                                           - replace the database content with the fixtures")
	fmt.Println("  report [-class ID] [-top N] [-json]            - print the summary report")
	fmt.Println("  export -out FILE [-class ID] [-month YYYY-MM]  - write the reports to an xlsx workbook")
	fmt.Println("  import -file FILE [-class ID]                  - create the students of an xlsx roster")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportClass := reportCmd.Int("class", 0, "Only report on this class.")
	reportTop := reportCmd.Int("top", report.DefaultTop, "How many top students to list (-1 for all).")
	reportJSON := reportCmd.Bool("json", false, "Print JSON (default when stdout is not a terminal).")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("out", "", "The xlsx file to write.")
	exportClass := exportCmd.Int("class", 0, "Export this class' gradebook and attendance sheet too.")
	exportMonth := exportCmd.String("month", "", "The attendance sheet month, as YYYY-MM (default: current month).")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "The xlsx roster to import.")
	importClass := importCmd.Int("class", 0, "The class of the students whose row has no class.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.report(*reportClass, *reportTop, *reportJSON || !isTerminalFunc())
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut, *exportClass, *exportMonth)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importFile, *importClass)
	default:
		cli.printUsage()
		return errHelp
	}
}
