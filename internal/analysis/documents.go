package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Chunk is one parsed fragment of a document.
type Chunk struct {
	ChunkID  string        `json:"chunk_id"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

type ChunkMetadata struct {
	Page         int    `json:"page"`
	ContractName string `json:"contract_name"`
	Section      string `json:"section"`
	ChunkType    string `json:"chunk_type"`
}

// ParsedDocument is the mock parser output.
type ParsedDocument struct {
	DocumentID string  `json:"document_id"`
	Chunks     []Chunk `json:"chunks"`
}

// Result is the canned analysis returned when no stored analysis exists.
type Result struct {
	Summary     string   `json:"summary"`
	KeyTerms    []string `json:"key_terms"`
	Risks       []string `json:"risks"`
	Obligations []string `json:"obligations"`
}

// MockAnalysis returns the fixed placeholder analysis used for contracts
// that have not been analyzed.
func MockAnalysis() Result {
	return Result{
		Summary:     "This is a standard service agreement with typical terms and conditions.",
		KeyTerms:    []string{"Payment terms", "Termination clause", "Liability limitation", "Confidentiality"},
		Risks:       []string{"Auto-renewal clause", "Limited liability cap", "Short termination notice"},
		Obligations: []string{"Monthly payments", "Service level maintenance", "Data protection compliance"},
	}
}

type clause struct {
	text    string
	page    int
	section string
}

var serviceAgreementClauses = []clause{
	{"This Master Service Agreement ('Agreement') is entered into on [DATE] between [PARTY A], a [STATE] corporation ('Company'), and [PARTY B], a [STATE] corporation ('Service Provider').", 1, "Introduction"},
	{"Termination clause: Either party may terminate this Agreement with ninety (90) days' written notice to the other party. Upon termination, all obligations shall cease except for those that by their nature should survive termination.", 2, "Termination"},
	{"Payment terms: Service Provider shall invoice Company monthly for services rendered. Payment is due within thirty (30) days of invoice date. Late payments shall incur a service charge of 1.5% per month.", 3, "Payment"},
	{"Confidentiality: Both parties acknowledge that they may have access to confidential information. Each party agrees to maintain the confidentiality of such information and not disclose it to third parties without written consent.", 4, "Confidentiality"},
	{"Liability limitation: In no event shall either party's liability exceed the total amount paid under this Agreement in the twelve (12) months preceding the claim. This limitation applies to all claims, whether in contract, tort, or otherwise.", 5, "Liability"},
	{"Intellectual Property: All work product created by Service Provider under this Agreement shall be deemed work made for hire and shall be owned by Company. Service Provider assigns all rights, title, and interest to Company.", 6, "IP Rights"},
	{"Force Majeure: Neither party shall be liable for any delay or failure to perform due to causes beyond its reasonable control, including but not limited to acts of God, war, terrorism, or government regulations.", 7, "Force Majeure"},
	{"Governing Law: This Agreement shall be governed by and construed in accordance with the laws of [STATE], without regard to its conflict of laws principles. Any disputes shall be resolved in the courts of [STATE].", 8, "Governing Law"},
	{"Amendment: This Agreement may only be amended by written agreement signed by both parties. No oral modifications shall be binding or enforceable.", 8, "Amendment"},
	{"Severability: If any provision of this Agreement is held to be invalid or unenforceable, the remaining provisions shall continue in full force and effect.", 9, "Severability"},
}

var ndaClauses = []clause{
	{"Non-Disclosure Agreement: This Agreement is to protect confidential information that may be disclosed between the parties in connection with potential business relationships.", 1, "Purpose"},
	{"Definition of Confidential Information: Confidential Information includes all non-public, proprietary information, technical data, trade secrets, know-how, research, product plans, products, services, customers, customer lists, markets, software, developments, inventions, processes, formulas, technology, designs, drawings, engineering, hardware configuration information, marketing, finances, or other business information.", 1, "Definitions"},
	{"Obligations: The receiving party agrees to hold and maintain the Confidential Information in strict confidence and not to disclose such information to any third parties without prior written consent.", 2, "Obligations"},
	{"Term: This Agreement shall remain in effect for a period of five (5) years from the date of execution, unless terminated earlier by mutual written consent.", 2, "Term"},
}

var employmentClauses = []clause{
	{"Employment Agreement: This Agreement sets forth the terms and conditions of employment between the Company and Employee for the position of [TITLE].", 1, "Employment"},
	{"Compensation: Employee shall receive an annual salary of $[AMOUNT], payable in accordance with Company's standard payroll practices. Employee may also be eligible for performance bonuses at Company's discretion.", 2, "Compensation"},
	{"Benefits: Employee shall be entitled to participate in Company's benefit plans, including health insurance, retirement plans, and paid time off, subject to the terms of such plans.", 2, "Benefits"},
	{"Termination: Either party may terminate this employment relationship at any time, with or without cause, upon two (2) weeks' written notice.", 3, "Termination"},
}

var licenseClauses = []clause{
	{"Software License Agreement: This Agreement grants Licensee a non-exclusive, non-transferable license to use the Software subject to the terms and conditions herein.", 1, "License Grant"},
	{"Restrictions: Licensee may not copy, modify, distribute, sell, or lease any part of the Software. Reverse engineering is strictly prohibited.", 1, "Restrictions"},
	{"Support and Maintenance: Licensor shall provide technical support and software updates for a period of one (1) year from the effective date.", 2, "Support"},
	{"License Fee: Licensee agrees to pay the license fee of $[AMOUNT] annually. Failure to pay may result in license termination.", 2, "Fees"},
}

// ParseDocument simulates a document-parsing service. Plain text files are
// chunked by word count; everything else gets template clauses picked by
// filename.
func ParseDocument(content []byte, filename, extension string) ParsedDocument {
	var chunks []Chunk
	if extension == ".txt" {
		chunks = chunkText(content, filename)
	}
	if len(chunks) == 0 {
		chunks = templateChunks(filename)
	}

	return ParsedDocument{
		DocumentID: "doc_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		Chunks:     chunks,
	}
}

func templateChunks(filename string) []Chunk {
	clauses := serviceAgreementClauses
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "nda"):
		clauses = ndaClauses
	case strings.Contains(lower, "employment"):
		clauses = employmentClauses
	case strings.Contains(lower, "license"):
		clauses = licenseClauses
	}

	chunks := make([]Chunk, 0, len(clauses))
	for i, cl := range clauses {
		chunks = append(chunks, Chunk{
			ChunkID: fmt.Sprintf("c%d", i+1),
			Text:    cl.text,
			Metadata: ChunkMetadata{
				Page:         cl.page,
				ContractName: filename,
				Section:      cl.section,
				ChunkType:    "contract_clause",
			},
		})
	}
	return chunks
}

const wordsPerChunk = 100

func chunkText(content []byte, filename string) []Chunk {
	if !utf8.Valid(content) {
		return nil
	}
	words := strings.Fields(string(content))

	var chunks []Chunk
	for i := 0; i < len(words); i += wordsPerChunk {
		end := i + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, Chunk{
			ChunkID: fmt.Sprintf("c%d", i/wordsPerChunk+1),
			Text:    strings.Join(words[i:end], " "),
			Metadata: ChunkMetadata{
				Page:         i/wordsPerChunk + 1,
				ContractName: filename,
				Section:      "Content",
				ChunkType:    "text_content",
			},
		})
	}
	return chunks
}
