package bot

import (
	"fmt"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// User-facing reply texts. The summary always goes out after an attachment,
// even when every structured field came back empty.
const (
	replyAck               = "Recebido!"
	replyNothingPending    = "Nenhum lançamento pendente encontrado."
	replySubmitted         = "Lançamento enviado ao financeiro com sucesso! ✅"
	replySubmitFailed      = "Não consegui enviar o lançamento ao financeiro. Envie o comprovante novamente para tentar outra vez."
	replyUnsupportedType   = "Envie texto, imagem ou PDF."
	replyUnsupportedFormat = "Formato de arquivo não suportado. Envie uma imagem ou um PDF."
	replyMediaFailed       = "Não consegui baixar o arquivo. Tente enviar novamente."
	replyExtractionFailed  = "Não consegui ler o comprovante agora. Tente novamente em instantes."
)

// BuildSummary renders the extracted fields for the sender to check before
// confirming. Empty fields show as N/D.
func BuildSummary(rec entity.Record) string {
	return fmt.Sprintf(
		"Recebi o seu comprovante! ✅\n\n"+
			"Fornecedor: %s\n"+
			"CNPJ: %s\n"+
			"Data: %s\n"+
			"Valor: %s\n"+
			"Descrição: %s\n\n"+
			"Se estiver tudo certo, responda *SIM* para lançar no financeiro.",
		orND(rec.Supplier),
		orND(rec.TaxID),
		orND(rec.DocumentDate),
		orND(rec.Amount),
		orND(rec.Description),
	)
}

func orND(s string) string {
	if s == "" {
		return "N/D"
	}
	return s
}
