// Copyright 2025 Interlynk.io
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sw360

import "context"

// ComponentClient accesses /components.
type ComponentClient struct {
	c *Client
}

func (cc *ComponentClient) Create(ctx context.Context, draft *Component) (*Component, error) {
	body, err := cc.c.postJSON(ctx, "create component", cc.c.url(pathComponents), draft)
	if err != nil {
		return nil, err
	}
	return &Component{Document: newDocumentBytes(body)}, nil
}

func (cc *ComponentClient) Get(ctx context.Context, id string) (*Component, error) {
	body, err := cc.c.get(ctx, "get component", cc.c.url(pathComponents, id))
	if err != nil {
		return nil, err
	}
	return &Component{Document: newDocumentBytes(body)}, nil
}

func (cc *ComponentClient) List(ctx context.Context) ([]*Component, error) {
	body, err := cc.c.get(ctx, "list components", cc.c.url(pathComponents))
	if err != nil {
		return nil, err
	}
	return componentsOf(newDocumentBytes(body)), nil
}

func (cc *ComponentClient) Update(ctx context.Context, id string, patch *Component) (*Component, error) {
	body, err := cc.c.patchJSON(ctx, "update component", cc.c.url(pathComponents, id), patch)
	if err != nil {
		return nil, err
	}
	return &Component{Document: newDocumentBytes(body)}, nil
}

func (cc *ComponentClient) Delete(ctx context.Context, id string) error {
	_, err := cc.c.delete(ctx, "delete component", cc.c.url(pathComponents, id))
	return err
}
