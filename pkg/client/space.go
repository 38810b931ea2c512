package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"spaces/pkg/model"
)

type Metadata struct {
	TotalCount int64
	Limit      int
	Offset     int64
}

// SpaceClient talks to the spaces HTTP API.
type SpaceClient struct {
	httpClient *HttpClient
}

func NewSpaceClient(baseUrl string) *SpaceClient {
	return &SpaceClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func spacePath(id string, rest string) string {
	return "/api/v1/spaces/" + url.PathEscape(id) + rest
}

func (c *SpaceClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/spaces", body)
}

func (c *SpaceClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/spaces?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *SpaceClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET(spacePath(id, ""))
}

func (c *SpaceClient) Update(id string, body any) (*Response, error) {
	return c.httpClient.PATCH(spacePath(id, ""), body)
}

func (c *SpaceClient) Delete(id string) (*Response, error) {
	return c.httpClient.DELETE(spacePath(id, ""))
}

func (c *SpaceClient) SetRate(id string, body any) (*Response, error) {
	return c.httpClient.PUT(spacePath(id, "/rate"), body)
}

func (c *SpaceClient) Calendar(id string) (*Response, error) {
	return c.httpClient.GET(spacePath(id, "/calendar"))
}

func (c *SpaceClient) Reserve(id string, start, end time.Time) (*Response, error) {
	return c.httpClient.POST(spacePath(id, "/reservations"), model.ReservationRequest{Start: start, End: end})
}

func (c *SpaceClient) Release(id string, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("start", start.Format(time.RFC3339))
	q.Set("end", end.Format(time.RFC3339))
	return c.httpClient.DELETE(spacePath(id, "/reservations?"+q.Encode()))
}

func (c *SpaceClient) Availability(id string, from time.Time, hours int) (*Response, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("hours", strconv.Itoa(hours))
	return c.httpClient.GET(spacePath(id, "/availability?"+q.Encode()))
}

func (c *SpaceClient) AddReview(id string, body any) (*Response, error) {
	return c.httpClient.POST(spacePath(id, "/reviews"), body)
}

func decodeData[T any](resp *Response, what string) (*T, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode %s wrapper:\n%+v\n%s", what, resp.ToString(), err)
	}

	var v T
	if err := json.Unmarshal(wrapper.Data, &v); err != nil {
		return nil, fmt.Errorf("could not decode %s json:\n%+v\n%s", what, resp.ToString(), err)
	}
	return &v, nil
}

func (c *SpaceClient) DecodeSpace(resp *Response) (*model.Space, error) {
	return decodeData[model.Space](resp, "space")
}

func (c *SpaceClient) DecodeCalendar(resp *Response) (*model.Calendar, error) {
	return decodeData[model.Calendar](resp, "calendar")
}

func (c *SpaceClient) DecodeReservation(resp *Response) (*model.LedgerEntry, error) {
	return decodeData[model.LedgerEntry](resp, "reservation")
}

func (c *SpaceClient) DecodeSlot(resp *Response) (*model.Slot, error) {
	return decodeData[model.Slot](resp, "slot")
}

func (c *SpaceClient) DecodeSpaces(resp *Response) ([]*model.Space, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var spaces []*model.Space
	if err := json.Unmarshal(wrapper.Data, &spaces); err != nil {
		return nil, nil, fmt.Errorf("could not decode space list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return spaces, metadata, nil
}
