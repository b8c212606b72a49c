/*

Process of compilation

Source Text ->
	tokenize ->
Token Sequence (front) ->
	parse ->
Abstract Syntax Tree (ast) ->
	generate ->
Assembly Text (back) ->
	cc -m32: assemble, link ->
Binary Executable

Every stage either completes or reports the first error. There are no
partial results.

*/
package compiler
