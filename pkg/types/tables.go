package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "tutornest_"

const (
	TABLE_KNOWLEDGE_BASE = TableName("knowledge_base")
	TABLE_DOCUMENT       = TableName("document")
	TABLE_DOCUMENT_CHUNK = TableName("document_chunk")
	TABLE_VECTORS        = TableName("vectors")
	TABLE_CHAT_MESSAGE   = TableName("chat_message")
)
