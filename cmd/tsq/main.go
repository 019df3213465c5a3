package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfall/tradesession/internal/config"
	"github.com/quantfall/tradesession/internal/product"
	"github.com/quantfall/tradesession/internal/registry"
	"github.com/quantfall/tradesession/internal/sessioncfg"
	"github.com/quantfall/tradesession/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "init-db":
		fs := flag.NewFlagSet("init-db", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(err)
		defer db.Close()
		fatalIf(sqlite.Migrate(db))
		log.Printf("db initialized: %s", cfg.DBPath)
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		csvPath := fs.String("csv", "", "CSV path (default: csv_path from config)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(err)
		path := *csvPath
		if path == "" {
			path = cfg.CSVPath
		}
		if path == "" {
			fatalIf(fmt.Errorf("no CSV path: pass -csv or set csv_path"))
		}
		rows, err := sessioncfg.ParseFile(path)
		fatalIf(err)
		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(err)
		defer db.Close()
		fatalIf(sqlite.Migrate(db))
		fatalIf(sqlite.UpsertRows(db, rows))
		log.Printf("imported %d products from %s", len(rows), path)
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		reg := mustLoadRegistry(*cfgPath)
		for _, key := range reg.Keys() {
			s, _ := reg.Get(key)
			fmt.Printf("%-10s %s\n", key, s.Render())
		}
		log.Printf("%d products", reg.Count())
	case "show":
		fs := flag.NewFlagSet("show", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		prod := fs.String("product", "", "product code, e.g. ag")
		_ = fs.Parse(os.Args[2:])

		reg := mustLoadRegistry(*cfgPath)
		s, ok := reg.Get(mustProduct(*prod))
		if !ok {
			fatalIf(fmt.Errorf("unknown product: %q", *prod))
		}
		fmt.Println(s)
	case "check":
		fs := flag.NewFlagSet("check", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		prod := fs.String("product", "", "product or instrument code, e.g. ag or ag2406.SHFE")
		at := fs.String("time", "", `wall-clock time "15:04" or "15:04:05" (default: now)`)
		includeBegin := fs.Bool("begin", true, "count a point exactly at a slice begin")
		includeEnd := fs.Bool("end", false, "count a point exactly at a slice end")
		_ = fs.Parse(os.Args[2:])

		reg := mustLoadRegistry(*cfgPath)
		s, ok := reg.Get(mustProduct(*prod))
		if !ok {
			fatalIf(fmt.Errorf("unknown product: %q", *prod))
		}
		var in bool
		if *at == "" {
			now := time.Now()
			in = s.InSession(now, *includeBegin, *includeEnd)
		} else {
			h, m, sec, err := parseClock(*at)
			fatalIf(err)
			in = s.InSessionClock(h, m, sec, *includeBegin, *includeEnd)
		}
		fmt.Println(in)
		if !in {
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func mustLoadRegistry(cfgPath string) *registry.Registry {
	cfg, err := config.Load(cfgPath)
	fatalIf(err)

	reg := registry.New()
	fatalIf(reg.LoadFromConfig(cfg))
	return reg
}

func mustProduct(code string) string {
	p, err := product.Of(code)
	fatalIf(err)
	return p
}

func parseClock(s string) (hour, minute, sec int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("bad time %q, want HH:MM or HH:MM:SS", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		nums[i], err = strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad time %q: %v", s, err)
		}
	}
	return nums[0], nums[1], nums[2], nil
}

func fatalIf(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `tsq - trading session query tool

usage:
  tsq init-db -config configs/config.yaml
  tsq import  -config configs/config.yaml [-csv sessions.csv]
  tsq list    -config configs/config.yaml
  tsq show    -config configs/config.yaml -product ag
  tsq check   -config configs/config.yaml -product ag2406 [-time 21:05] [-begin] [-end]
`)
}
