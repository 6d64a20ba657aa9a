package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MKato2361/Report-maker-V3/model"
)

// Label lines look like "ラベル: 値". The label carries no whitespace except
// an optional middle-dot joint ("現着・完了登録はこちら"); the colon may still be
// full-width on not-yet-normalized input.
var (
	labelRe     = regexp.MustCompile(`^\s*([^\s:：]+(?:・[^\s:：]+)?)\s*[:：]\s*(.*)$`)
	caseRe      = regexp.MustCompile(`(?m)^件名:\s*【\s*([^】]+?)\s*】`)
	subjectIDRe = regexp.MustCompile(`(?i)件名:.*?【[^】]+】\s*([A-Z0-9-]+)`)
	urlRe       = regexp.MustCompile(`https?://\S+`)
	urlTailRe   = regexp.MustCompile(`[)\]＞）」】>]+$`)
	ticketNumRe = regexp.MustCompile(`受付番号\s*[:：]\s*([0-9]+)`)
)

func stripURLTail(u string) string {
	return urlTailRe.ReplaceAllString(strings.TrimSpace(u), "")
}

// fieldKind drives per-key handling during the line walk.
type fieldKind int

const (
	kindScalar fieldKind = iota
	kindMultiline
	kindURL
)

func kindOf(key string) fieldKind {
	switch {
	case model.IsMultiline(key):
		return kindMultiline
	case model.IsURLKey(key):
		return kindURL
	default:
		return kindScalar
	}
}

// extractor is the per-call state of the line walk.
type extractor struct {
	out          model.Record
	subjectID    string
	currentMulti string   // active multi-line key, "" when none
	buffer       []string // accumulated lines for currentMulti
	awaitingURL  string   // URL key whose value is expected on a later line
}

// ExtractFields parses a pasted maintenance-report mail body into a canonical
// record. Malformed input never errors; unrecognized lines simply contribute
// nothing.
func ExtractFields(rawText string) model.Record {
	ex := &extractor{out: model.NewRecord()}

	t := NormalizeText(rawText)
	lines := strings.Split(t, "\n")

	// Subject line: case type in 【...】 and, further along the same line, an
	// alphanumeric management ID. Both are fallbacks for missing labels.
	if m := caseRe.FindStringSubmatch(t); m != nil {
		ex.out[model.KeyCaseSubject] = strings.TrimSpace(m[1])
	}
	if m := subjectIDRe.FindStringSubmatch(t); m != nil {
		ex.subjectID = strings.TrimSpace(m[1])
	}

	for _, line := range lines {
		ex.consume(line)
	}
	ex.flush()

	if ex.out[model.KeyManagementID] == "" && ex.subjectID != "" {
		ex.out[model.KeyManagementID] = ex.subjectID
	}

	if mins, ok := MinutesBetween(ex.out[model.KeyArrivedAt], ex.out[model.KeyCompletedAt]); ok && mins >= 0 {
		ex.out[model.KeyWorkMinutes] = strconv.Itoa(mins)
	}
	return ex.out
}

func (ex *extractor) consume(line string) {
	if ex.awaitingURL != "" && strings.HasPrefix(strings.TrimSpace(line), "http") {
		ex.out[ex.awaitingURL] = stripURLTail(line)
		ex.awaitingURL = ""
		return
	}

	m := labelRe.FindStringSubmatch(line)
	if m == nil {
		if ex.currentMulti != "" {
			// Raw lines, blanks included, belong to the open narrative field.
			ex.buffer = append(ex.buffer, line)
		} else if ex.out[model.KeyTicketNumber] == "" {
			ex.captureTicketNumber(line)
		}
		return
	}

	ex.flush()

	rawLabel := strings.TrimSpace(m[1])
	valuePart := strings.TrimSpace(m[2])
	key, known := model.LabelAliases[rawLabel]
	if !known {
		return
	}

	switch kindOf(key) {
	case kindMultiline:
		ex.currentMulti = key
		ex.buffer = nil
		if valuePart != "" {
			ex.buffer = append(ex.buffer, valuePart)
		}
	case kindURL:
		if u := urlRe.FindString(valuePart); u != "" {
			ex.out[key] = stripURLTail(u)
		} else {
			ex.awaitingURL = key
		}
	default:
		if key == model.KeyManagementID && valuePart == "" && ex.subjectID != "" {
			ex.out[key] = ex.subjectID
		} else if valuePart != "" {
			ex.out[key] = valuePart
		}
	}

	// Side channel: a ticket number embedded anywhere in the line wins even
	// when the matched label was something else.
	if strings.Contains(line, "受付番号") {
		ex.captureTicketNumber(line)
	}
}

func (ex *extractor) captureTicketNumber(line string) {
	if m := ticketNumRe.FindStringSubmatch(line); m != nil {
		ex.out[model.KeyTicketNumber] = strings.TrimSpace(m[1])
	}
}

// flush closes the active multi-line buffer into the record, dropping blank
// lines and joining the rest with "\n".
func (ex *extractor) flush() {
	if ex.currentMulti != "" && len(ex.buffer) > 0 {
		var kept []string
		for _, ln := range ex.buffer {
			if strings.TrimSpace(ln) != "" {
				kept = append(kept, ln)
			}
		}
		ex.out[ex.currentMulti] = strings.TrimSpace(strings.Join(kept, "\n"))
	}
	ex.currentMulti = ""
	ex.buffer = nil
}
