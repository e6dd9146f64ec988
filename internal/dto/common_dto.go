package dto

// MessageResponse 消息响应，错误响应也使用该格式
type MessageResponse struct {
	Message string `json:"message"`
}

// IndexResponse 根路径响应，列出全部已注册的接口
type IndexResponse struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}
