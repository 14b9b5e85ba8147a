package migrations

import "github.com/go-rel/rel"

func MigrateCreatePublicKeys(schema *rel.Schema) {
	schema.CreateTable("public_keys", func(t *rel.Table) {
		t.String("id", rel.Limit(64))
		t.Text("body")
		t.PrimaryKey("id")
	})
}

func RollbackCreatePublicKeys(schema *rel.Schema) {
	schema.DropTable("public_keys")
}
