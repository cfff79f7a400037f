package api

import "io"

// ProgressFunc receives upload progress as a 0–100 percentage. Values are
// non-decreasing and deduplicated; 100 is reported at most once, when the
// last byte has been read.
type ProgressFunc func(percent int)

// progressReader reports the percentage of total consumed from r. With an
// unknown total (<= 0) nothing is reported.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func newProgressReader(r io.Reader, total int64, report ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, report: report}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.total > 0 && p.report != nil {
		p.read += int64(n)
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.report(percent)
		}
	}
	return n, err
}
