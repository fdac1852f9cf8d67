package simpleboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList_BareArray(t *testing.T) {
	body := []byte(`[{"boardId":1,"boardNum":"01","boardTitle":"Notice","boardUse":"Y"}]`)

	boards := DecodeList[Board](body)
	require.Len(t, boards, 1)
	assert.Equal(t, int64(1), boards[0].ID)
	assert.Equal(t, "01", boards[0].Num)
}

func TestDecodeList_DataEnvelope(t *testing.T) {
	body := []byte(`{"data":[{"boardId":2,"boardNum":"02","boardUse":"Y"}]}`)

	boards := DecodeList[Board](body)
	require.Len(t, boards, 1)
	assert.Equal(t, int64(2), boards[0].ID)
}

func TestDecodeList_UnknownShape(t *testing.T) {
	cases := map[string]string{
		"empty object":   `{}`,
		"null":           `null`,
		"null data":      `{"data":null}`,
		"scalar data":    `{"data":42}`,
		"not json":       `<html>oops</html>`,
		"empty body":     ``,
		"object in data": `{"data":{"boardId":1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			boards := DecodeList[Board]([]byte(body))
			assert.NotNil(t, boards)
			assert.Empty(t, boards)
		})
	}
}

func TestDecodePage_ContentEnvelope(t *testing.T) {
	body := []byte(`{"content":[{"postId":7,"postTitle":"hello"}],"totalElements":1}`)

	posts := DecodePage[Post](body)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(7), posts[0].ID)
	assert.Equal(t, "hello", posts[0].Title)
}

func TestDecodePage_FallsBackToListShapes(t *testing.T) {
	bare := DecodePage[Post]([]byte(`[{"postId":1}]`))
	require.Len(t, bare, 1)

	wrapped := DecodePage[Post]([]byte(`{"data":[{"postId":2}]}`))
	require.Len(t, wrapped, 1)
	assert.Equal(t, int64(2), wrapped[0].ID)

	unknown := DecodePage[Post]([]byte(`{"rows":[]}`))
	assert.Empty(t, unknown)
}

func TestDecodeItem_DataEnvelope(t *testing.T) {
	body := []byte(`{"data":{"postId":3,"postTitle":"wrapped"}}`)

	post, ok := DecodeItem[Post](body)
	require.True(t, ok)
	assert.Equal(t, int64(3), post.ID)
}

func TestDecodeItem_BareObject(t *testing.T) {
	body := []byte(`{"postId":4,"postTitle":"bare"}`)

	post, ok := DecodeItem[Post](body)
	require.True(t, ok)
	assert.Equal(t, int64(4), post.ID)
}

func TestDecodeItem_NullAndMalformed(t *testing.T) {
	_, ok := DecodeItem[Post]([]byte(`null`))
	assert.False(t, ok)

	_, ok = DecodeItem[Post]([]byte(`{"data":null}`))
	// A null data field falls through to the bare-object path; an object with
	// only a null data field decodes as a zero post, which is still an object.
	assert.True(t, ok)

	_, ok = DecodeItem[Post]([]byte(`not json`))
	assert.False(t, ok)
}
