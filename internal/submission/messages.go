package submission

// User facing text. The page is Portuguese only.
const (
	EmptyPromptMessage = "Por favor, digite um pedido!"
	FailurePrefix      = "Falha ao gerar imagem: "
)
