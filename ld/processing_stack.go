// Copyright 2015-2017 Piprate Limited
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

package ld

// ProcessingStack tracks the remote context URLs currently being
// dereferenced, to detect inclusion loops.
//
// The stack is an immutable linked sequence: Push returns a new stack
// sharing the tail with its parent, so sibling branches of a recursive
// context load see independent views. The zero value is an empty stack.
type ProcessingStack struct {
	head *stackNode
}

type stackNode struct {
	prev *stackNode
	url  string
}

// NewProcessingStack creates a new empty processing stack.
func NewProcessingStack() ProcessingStack {
	return ProcessingStack{}
}

// IsEmpty checks if the stack is empty.
func (s ProcessingStack) IsEmpty() bool {
	return s.head == nil
}

// Cycle checks if the given URL is already in the stack.
func (s ProcessingStack) Cycle(url string) bool {
	for node := s.head; node != nil; node = node.prev {
		if node.url == url {
			return true
		}
	}
	return false
}

// Push adds a new URL to the head of the stack, unless it is already
// present. Returns the extended stack and true, or the receiver
// unchanged and false if a loop has been detected.
func (s ProcessingStack) Push(url string) (ProcessingStack, bool) {
	if s.Cycle(url) {
		return s, false
	}
	return ProcessingStack{head: &stackNode{prev: s.head, url: url}}, true
}
