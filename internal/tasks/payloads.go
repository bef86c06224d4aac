package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePDFExport = "export:pdf"
)

// PDFExportPayload 描述导出 PDF 所需的最小信息。
type PDFExportPayload struct {
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewPDFExportTask 构造一个新的简历 PDF 导出任务。
func NewPDFExportTask(id string, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PDFExportPayload{
		ResumeID:      id,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePDFExport, payload), nil
}
