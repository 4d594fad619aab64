package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// worldTables maps each table of the world schema to its model struct.
// Migration bookkeeping tables are left out.
var worldTables = []struct {
	table, model string
}{
	{"worlds", "World"},
	{"world_settlements", "WorldSettlement"},
	{"world_resources", "WorldResource"},
	{"world_roads", "WorldRoad"},
}

func main() {
	var dsn, out, only string
	flag.StringVar(&dsn, "dsn", os.Getenv("OVERLAND_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.StringVar(&only, "tables", "", "comma separated subset of world tables to regenerate")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or OVERLAND_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	want := map[string]bool{}
	for _, t := range strings.Split(only, ",") {
		if t = strings.TrimSpace(t); t != "" {
			want[t] = true
		}
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:      out,
		ModelPkgPath: "model",
		Mode:         gen.WithoutContext,
	})
	g.UseDB(db)

	generated := make([]string, 0, len(worldTables))
	for _, wt := range worldTables {
		if len(want) > 0 && !want[wt.table] {
			continue
		}
		g.GenerateModelAs(wt.table, wt.model)
		generated = append(generated, wt.table)
	}
	if len(generated) == 0 {
		log.Fatalf("no world table matches --tables=%q", only)
	}
	g.Execute()

	fmt.Printf("generated world models for %s at %s\n", strings.Join(generated, ", "), out)
}
