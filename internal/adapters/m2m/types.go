package m2m

import (
	"encoding/json"

	"github.com/Leiguo924/landsat-dl/internal/locator"
)

const (
	endpointLogin           = "login-token"
	endpointLogout          = "logout"
	endpointDownloadOptions = "download-options"
	endpointDownloadRequest = "download-request"
	endpointSceneListAdd    = "scene-list-add"
	endpointSceneListGet    = "scene-list-get"
	endpointSceneListRemove = "scene-list-remove"

	downloadApplication = "EE"
	idFieldDisplayID    = "displayId"
)

// envelope wraps every M2M response.
type envelope struct {
	Data         json.RawMessage `json:"data"`
	ErrorCode    string          `json:"errorCode"`
	ErrorMessage string          `json:"errorMessage"`
}

type loginRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type downloadOptionsRequest struct {
	DatasetName string `json:"datasetName"`
	EntityIDs   string `json:"entityIds"`
}

type downloadOption struct {
	ID                 string           `json:"id"`
	EntityID           string           `json:"entityId"`
	DisplayID          string           `json:"displayId"`
	ProductName        string           `json:"productName"`
	Available          bool             `json:"available"`
	Filesize           int64            `json:"filesize"`
	SecondaryDownloads []downloadOption `json:"secondaryDownloads"`
}

func (o downloadOption) toOffering() locator.Offering {
	offering := locator.Offering{
		ID:          o.ID,
		EntityID:    o.EntityID,
		DisplayID:   o.DisplayID,
		ProductName: o.ProductName,
		Available:   o.Available,
		Size:        o.Filesize,
	}
	for _, sub := range o.SecondaryDownloads {
		offering.Secondary = append(offering.Secondary, sub.toOffering())
	}
	return offering
}

type download struct {
	EntityID  string `json:"entityId"`
	ProductID string `json:"productId"`
}

type downloadRequest struct {
	Downloads           []download `json:"downloads"`
	DownloadApplication string     `json:"downloadApplication"`
}

type downloadURL struct {
	URL string `json:"url"`
}

type downloadResponse struct {
	AvailableDownloads []downloadURL `json:"availableDownloads"`
	PreparingDownloads []downloadURL `json:"preparingDownloads"`
}

type sceneListAddRequest struct {
	ListID      string `json:"listId"`
	DatasetName string `json:"datasetName"`
	IDField     string `json:"idField"`
	EntityID    string `json:"entityId"`
}

type sceneListRequest struct {
	ListID string `json:"listId"`
}

type sceneListEntry struct {
	EntityID    string `json:"entityId"`
	DatasetName string `json:"datasetName"`
}
