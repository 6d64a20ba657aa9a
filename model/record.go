package model

// Canonical field keys for a dispatch report record. Every record carries the
// full key set; absent fields hold the empty string.
const (
	KeyManagementID           = "management_id"
	KeyPropertyName           = "property_name"
	KeyAddress                = "address"
	KeyContactCompany         = "contact_company"
	KeyMaker                  = "maker"
	KeyControlType            = "control_type"
	KeyContractType           = "contract_type"
	KeyReceivedAt             = "received_at"
	KeyCaller                 = "caller"
	KeyArrivedAt              = "arrived_at"
	KeyCompletedAt            = "completed_at"
	KeyReceivedContent        = "received_content"
	KeyArrivalStatus          = "arrival_status"
	KeyCause                  = "cause"
	KeyActionTaken            = "action_taken"
	KeyResponder              = "responder"
	KeySender                 = "sender"
	KeyContactInfo1           = "contact_info_1"
	KeyTicketNumber           = "ticket_number"
	KeyTicketURL              = "ticket_url"
	KeyArrivalRegistrationURL = "arrival_registration_url"
	KeyAffiliation            = "affiliation"
	KeyPostRepairNote         = "post_repair_note"
	KeyWorkMinutes            = "work_minutes"
	KeyCaseSubject            = "case_subject"
)

// AllKeys lists every canonical key in display order.
var AllKeys = []string{
	KeyManagementID,
	KeyPropertyName,
	KeyAddress,
	KeyContactCompany,
	KeyMaker,
	KeyControlType,
	KeyContractType,
	KeyReceivedAt,
	KeyCaller,
	KeyArrivedAt,
	KeyCompletedAt,
	KeyReceivedContent,
	KeyArrivalStatus,
	KeyCause,
	KeyActionTaken,
	KeyResponder,
	KeySender,
	KeyContactInfo1,
	KeyTicketNumber,
	KeyTicketURL,
	KeyArrivalRegistrationURL,
	KeyAffiliation,
	KeyPostRepairNote,
	KeyWorkMinutes,
	KeyCaseSubject,
}

// RequiredKeys must be non-blank before a report can be generated.
var RequiredKeys = []string{
	KeyCaller,
	KeyReceivedContent,
	KeyArrivalStatus,
	KeyCause,
	KeyActionTaken,
	KeyPostRepairNote,
	KeyAffiliation,
}

// MultilineKeys may span several source lines and are truncated with a
// continuation marker when written to the template.
var MultilineKeys = []string{
	KeyReceivedContent,
	KeyArrivalStatus,
	KeyCause,
	KeyActionTaken,
}

// URLKeys hold a single URL whose value may arrive on the line after its label.
var URLKeys = []string{
	KeyTicketURL,
	KeyArrivalRegistrationURL,
}

// LabelAliases maps mail-body labels to canonical keys. Unlisted labels are
// ignored by extraction.
var LabelAliases = map[string]string{
	"管理番号":        KeyManagementID,
	"物件名":         KeyPropertyName,
	"住所":          KeyAddress,
	"窓口会社":        KeyContactCompany,
	"窓口":          KeyContactCompany,
	"メーカー":        KeyMaker,
	"制御方式":        KeyControlType,
	"契約種別":        KeyContractType,
	"受信時刻":        KeyReceivedAt,
	"通報者":         KeyCaller,
	"現着時刻":        KeyArrivedAt,
	"完了時刻":        KeyCompletedAt,
	"受信内容":        KeyReceivedContent,
	"現着状況":        KeyArrivalStatus,
	"原因":          KeyCause,
	"処置内容":        KeyActionTaken,
	"対応者":         KeyResponder,
	"完了連絡先1":      KeyContactInfo1,
	"送信者":         KeySender,
	"詳細はこちら":      KeyTicketURL,
	"現着・完了登録はこちら": KeyArrivalRegistrationURL,
	"受付番号":        KeyTicketNumber,
}

// ColumnAliases maps inbox-sheet column headers to canonical keys. The sheet
// mostly reuses the mail labels but adds a few columns of its own.
var ColumnAliases = func() map[string]string {
	m := make(map[string]string, len(LabelAliases)+8)
	for label, key := range LabelAliases {
		m[label] = key
	}
	m["受付URL"] = KeyTicketURL
	m["現着完了登録URL"] = KeyArrivalRegistrationURL
	m["所属"] = KeyAffiliation
	m["処理修理後"] = KeyPostRepairNote
	m["作業時間_分"] = KeyWorkMinutes
	m["案件種別(件名)"] = KeyCaseSubject
	// Canonical names pass through so re-imported exports keep working.
	for _, key := range AllKeys {
		m[key] = key
	}
	return m
}()

// PositionalColumns is the historical inbox column order, used only as a last
// resort when no header name resolves. Column 0 is the lookup token.
var PositionalColumns = []string{
	KeyManagementID,
	KeyPropertyName,
	KeyAddress,
	KeyContactCompany,
	KeyMaker,
	KeyControlType,
	KeyContractType,
	KeyReceivedAt,
	KeyArrivedAt,
	KeyCompletedAt,
	KeyCaller,
	KeyReceivedContent,
	KeyArrivalStatus,
	KeyCause,
	KeyActionTaken,
	KeyResponder,
	KeySender,
	KeyContactInfo1,
	KeyTicketNumber,
	KeyTicketURL,
	KeyArrivalRegistrationURL,
	KeyAffiliation,
	KeyPostRepairNote,
	KeyWorkMinutes,
}

// Record is a canonical dispatch-report record: every key in AllKeys is
// present, values default to "".
type Record map[string]string

// NewRecord returns a record with every canonical key initialized to "".
func NewRecord() Record {
	r := make(Record, len(AllKeys))
	for _, k := range AllKeys {
		r[k] = ""
	}
	return r
}

// Clone returns a deep copy, used as the bulk-edit draft buffer.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// IsMultiline reports whether key is one of the multi-line narrative fields.
func IsMultiline(key string) bool {
	for _, k := range MultilineKeys {
		if k == key {
			return true
		}
	}
	return false
}

// IsURLKey reports whether key is one of the URL fields.
func IsURLKey(key string) bool {
	for _, k := range URLKeys {
		if k == key {
			return true
		}
	}
	return false
}
