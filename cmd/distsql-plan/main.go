package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/src-d/go-distsql.v0"
	"gopkg.in/src-d/go-distsql.v0/catalog/boltcatalog"
	"gopkg.in/src-d/go-distsql.v0/mem"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/planner"
)

// distsql-plan prints the distributed plan of a query over a cluster
// description:
//
//	distsql-plan --catalog cluster.yml "SELECT count(name) FROM users"
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

type catalog interface {
	sql.Catalog
	sql.RoutingProvider
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("distsql-plan", pflag.ContinueOnError)
	catalogFile := flags.StringP("catalog", "c", "", "YAML file describing the cluster")
	boltDir := flags.String("bolt", "", "directory of a persisted catalog, used instead of --catalog")
	importFile := flags.Bool("import", false, "store the --catalog description into the --bolt catalog before planning")
	debug := flags.BoolP("debug", "d", false, "log planning decisions")
	printID := flags.Bool("id", false, "print the plan id after the plan")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	query := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if query == "" {
		return fmt.Errorf("usage: distsql-plan [flags] QUERY\n%s", flags.FlagUsages())
	}

	c, closeFn, err := openCatalog(*catalogFile, *boltDir, *importFile)
	if err != nil {
		return err
	}
	defer closeFn()

	builder := planner.NewBuilder
	if *debug {
		builder = func(c sql.Catalog, r sql.RoutingProvider, a sql.AggregationRegistry) *planner.Builder {
			return planner.NewBuilder(c, r, a).WithDebug()
		}
	}
	e := distsql.NewWithPlanner(c, c, builder)

	ctx := sql.NewContext(context.Background(), sql.WithQuery(query))
	p, err := e.Plan(ctx, query)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(out, p); err != nil {
		return err
	}

	if *printID {
		id, err := p.ID()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "id: %s\n", id); err != nil {
			return err
		}
	}

	return nil
}

func openCatalog(catalogFile, boltDir string, importFile bool) (catalog, func(), error) {
	if boltDir == "" {
		if catalogFile == "" {
			return nil, nil, fmt.Errorf("one of --catalog or --bolt is required")
		}

		c, err := mem.LoadCatalogFile(catalogFile)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}

	c, err := boltcatalog.Open(boltDir)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := c.Close(); err != nil {
			logrus.WithField("dir", boltDir).Errorf("unable to close catalog: %s", err)
		}
	}

	if importFile {
		if catalogFile == "" {
			closeFn()
			return nil, nil, fmt.Errorf("--import requires --catalog")
		}

		source, err := mem.LoadCatalogFile(catalogFile)
		if err != nil {
			closeFn()
			return nil, nil, err
		}

		if err := c.Import(source.Definition()); err != nil {
			closeFn()
			return nil, nil, err
		}
		logrus.WithField("dir", boltDir).Debug("catalog imported")
	}

	return c, closeFn, nil
}
