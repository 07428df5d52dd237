package sql

// Blank imports register the concrete database/sql drivers for every
// first-class dialect (§1, §4.F). Open/OpenDB pass the dialect name
// straight through to sql.Open, so each driver here registers itself
// under the name dialect package uses: "sqlite", "postgres", "mysql".
import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
