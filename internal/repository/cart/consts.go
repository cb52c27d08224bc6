package cart

const (
	// table / collection name
	cartNode string = "carrinhos_ativos"

	// Column names
	CustomerIdFieldPath string = "cliente_id"
	ItemsFieldPath      string = "itens"
	UpdatedAtFieldPath  string = "updated_at"
)
