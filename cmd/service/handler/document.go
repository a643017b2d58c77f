package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/tutornest-ai/tutornest/app/logic/v1"
	"github.com/tutornest-ai/tutornest/app/response"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
	"github.com/tutornest-ai/tutornest/pkg/types"
	"github.com/tutornest-ai/tutornest/pkg/utils"
)

// maxUploadBytes 单文件上传上限
const maxUploadBytes = 20 << 20

func (s *HttpSrv) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("UploadDocument.FormFile", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	if fileHeader.Size > maxUploadBytes {
		response.APIError(c, errors.New("UploadDocument.Size", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusRequestEntityTooLarge))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.APIError(c, errors.New("UploadDocument.Open", i18n.ERROR_INTERNAL, err))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		response.APIError(c, errors.New("UploadDocument.ReadAll", i18n.ERROR_INTERNAL, err))
		return
	}

	result, err := v1.NewDocumentLogic(c, s.Core).IngestDocument(c.Param("kbid"), fileHeader.Filename, raw)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

func (s *HttpSrv) GetDocument(c *gin.Context) {
	doc, err := v1.NewDocumentLogic(c, s.Core).GetDocument(c.Param("kbid"), c.Param("docid"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

func (s *HttpSrv) DeleteDocument(c *gin.Context) {
	if err := v1.NewDocumentLogic(c, s.Core).DeleteDocument(c.Param("kbid"), c.Param("docid")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type ListDocumentsRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required,lte=50"`
}

type ListDocumentsResponse struct {
	List  []types.Document `json:"list"`
	Total int64            `json:"total"`
}

func (s *HttpSrv) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewDocumentLogic(c, s.Core).ListDocuments(c.Param("kbid"), req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListDocumentsResponse{
		List:  list,
		Total: total,
	})
}
