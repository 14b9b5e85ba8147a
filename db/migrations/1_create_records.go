package migrations

import "github.com/go-rel/rel"

func MigrateCreateRecords(schema *rel.Schema) {
	schema.CreateTable("records", func(t *rel.Table) {
		t.String("id", rel.Limit(64))
		t.Text("body")
		t.PrimaryKey("id")
	})
}

func RollbackCreateRecords(schema *rel.Schema) {
	schema.DropTable("records")
}
