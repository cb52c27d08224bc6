package product

const (
	// table / collection name
	productNode string = "produtos_hema_cereais"

	// Column names
	IdFieldPath          string = "id"
	NameFieldPath        string = "nome"
	PriceFieldPath       string = "preço"
	QuantityFieldPath    string = "quantidade"
	DescriptionFieldPath string = "descricao"
	ImageUrlFieldPath    string = "url_imagem"
	CreatedAtFieldPath   string = "created_at"
	EmbeddingFieldPath   string = "embedding"

	// select list aliasing the backend columns to the product fields
	productSelect string = "id,name:nome,price:preço,quantity:quantidade,description:descricao,image_url:url_imagem,createdAt:created_at"
)
