package similarity

import "math"

// corpus holds term frequencies for a small set of documents.
type corpus struct {
	docs []map[string]int
	df   map[string]int
}

func newCorpus(docs ...[]string) *corpus {
	c := &corpus{df: make(map[string]int)}
	for _, tokens := range docs {
		tf := make(map[string]int, len(tokens))
		for _, t := range tokens {
			tf[t]++
		}
		for t := range tf {
			c.df[t]++
		}
		c.docs = append(c.docs, tf)
	}
	return c
}

// idf is 1 + ln(N / (1 + df)).
func (c *corpus) idf(term string) float64 {
	return 1 + math.Log(float64(len(c.docs))/float64(1+c.df[term]))
}

// weights returns log(1 + tf*idf) for every term of document i.
func (c *corpus) weights(i int) map[string]float64 {
	w := make(map[string]float64, len(c.docs[i]))
	for term, tf := range c.docs[i] {
		w[term] = math.Log1p(float64(tf) * c.idf(term))
	}
	return w
}
