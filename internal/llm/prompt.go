package llm

import "strings"

// Field names the extraction service must return. The order here is the order
// they are listed in the instruction.
var canonicalFields = []string{
	"supplier", "tax_id", "amount", "document_date", "description", "raw_text",
}

// BuildTextSystemPrompt is the fixed instruction for the digital-document path:
// the model reads extracted text and must answer with JSON only.
func BuildTextSystemPrompt() string {
	parts := []string{
		"You are a receipts parser for Brazilian expense documents.",
		"Analyze the provided text and return ONLY a JSON object with exactly these fields: " +
			strings.Join(canonicalFields, ", ") + ".",
		"supplier is the vendor name; tax_id is the CNPJ or CPF as printed.",
		"amount is the total paid, digits and decimal point only.",
		"document_date is the date as printed on the document.",
		"description is a short summary of what was purchased.",
		"raw_text is the full text you read.",
		"If a field is not present, use an empty string. Never output null.",
		"Do not wrap the JSON in markdown fences or add commentary.",
	}
	return strings.Join(parts, " ")
}

// BuildVisionSystemPrompt is the fixed instruction for the visual path: the
// model reads an attached receipt image.
func BuildVisionSystemPrompt() string {
	parts := []string{
		"You are a receipts parser for Brazilian expense documents.",
		"You are looking at a photo or scan of a payment receipt.",
		"Extract the fields and return ONLY a JSON object with exactly these fields: " +
			strings.Join(canonicalFields, ", ") + ".",
		"supplier is the vendor name; tax_id is the CNPJ or CPF as printed.",
		"amount is the total paid, digits and decimal point only.",
		"document_date is the date as printed on the document.",
		"description is a short summary of what was purchased.",
		"raw_text is all the text you can read in the image.",
		"If a field is not present, use an empty string. Never output null.",
		"Do not wrap the JSON in markdown fences or add commentary.",
	}
	return strings.Join(parts, " ")
}
