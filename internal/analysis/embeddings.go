// Package analysis provides the mock AI features of the prototype:
// deterministic hash-seeded embeddings, template document parsing and canned
// contract analysis. Nothing here is a real model; outputs are stable for
// identical inputs so the API behaves predictably in demos and tests.
package analysis

import (
	"crypto/md5"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"
)

// EmbeddingDimension is the size of the mock embedding vectors.
const EmbeddingDimension = 384

// semanticClusters groups contract vocabulary; a text dominated by one
// cluster gets a cluster-specific nudge so related texts land closer
// together.
var semanticClusters = map[string][]string{
	"termination":           {"terminate", "end", "cancel", "expire", "dissolution"},
	"payment":               {"pay", "invoice", "billing", "fee", "cost", "price", "compensation"},
	"liability":             {"liable", "responsibility", "damages", "loss", "harm", "injury"},
	"confidential":          {"confidential", "secret", "proprietary", "private", "nda"},
	"intellectual_property": {"ip", "patent", "copyright", "trademark", "invention"},
	"employment":            {"employee", "worker", "staff", "hire", "job", "position"},
	"license":               {"license", "permit", "authorization", "grant", "right"},
	"renewal":               {"renew", "extend", "continue", "auto-renew", "rollover"},
	"breach":                {"breach", "violation", "default", "non-compliance", "failure"},
	"force_majeure":         {"force majeure", "act of god", "unforeseeable", "beyond control"},
}

var clusterAdjustments = map[string][4]float64{
	"termination":           {0.8, -0.2, 0.5, 0.3},
	"payment":               {0.2, 0.9, -0.1, 0.4},
	"liability":             {-0.3, 0.1, 0.8, -0.2},
	"confidential":          {0.5, 0.3, -0.4, 0.7},
	"intellectual_property": {0.6, -0.5, 0.2, 0.8},
	"employment":            {-0.1, 0.7, 0.4, -0.3},
	"license":               {0.4, 0.2, -0.6, 0.5},
	"renewal":               {0.3, -0.4, 0.6, 0.2},
	"breach":                {-0.8, 0.1, -0.3, 0.4},
	"force_majeure":         {0.1, -0.7, 0.3, -0.5},
}

// Embedding generates a deterministic mock embedding for the text: the md5
// digest of the text seeds a PRNG, and the resulting gaussian vector is
// normalized to unit length.
func Embedding(text string) []float64 {
	sum := md5.Sum([]byte(text))
	seed := int64(binary.BigEndian.Uint32(sum[:4]))
	rng := rand.New(rand.NewSource(seed))

	embedding := make([]float64, EmbeddingDimension)
	for i := range embedding {
		embedding[i] = rng.NormFloat64()
	}
	return normalize(embedding)
}

// SemanticEmbedding is Embedding plus a cluster adjustment when the text
// matches known contract vocabulary.
func SemanticEmbedding(text string) []float64 {
	embedding := Embedding(text)

	textLower := strings.ToLower(text)
	dominant := ""
	best := 0
	for cluster, keywords := range semanticClusters {
		score := 0
		for _, keyword := range keywords {
			if strings.Contains(textLower, keyword) {
				score++
			}
		}
		if score > best || (score == best && score > 0 && cluster < dominant) {
			dominant = cluster
			best = score
		}
	}
	if best == 0 {
		return embedding
	}

	adjustment := clusterAdjustments[dominant]
	for i, adj := range adjustment {
		embedding[i] = embedding[i]*0.7 + adj*0.3
	}
	return embedding
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func normalize(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
