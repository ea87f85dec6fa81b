package coupon

type Status string

const (
	StatusGenerated Status = "GENERATED"
	StatusScanned   Status = "SCANNED"
	StatusActivated Status = "ACTIVATED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) String() string { return string(s) }

func NewStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusGenerated, StatusScanned, StatusActivated, StatusCompleted:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
