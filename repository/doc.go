/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package repository provides generic repositories over the data context
// handle of the database package.
//
// Two resource-lifetime policies live side by side. GenericRepository and
// CachedRepository are bound to one shared context for their whole life and
// differ only in when the entity set is resolved: on every call, or once at
// construction. CorrelatedRepository opens a new context for every
// operation and releases it when the operation returns.
//
// None of the repositories synchronize access. Using one instance, or two
// instances sharing a context, from several goroutines at once is not
// supported.
package repository
